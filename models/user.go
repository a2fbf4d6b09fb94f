package models

// User represents a registered account. The password is stored only as a
// bcrypt hash; rows are never updated or deleted after registration.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(50);uniqueIndex;not null;<-:create"`
	PasswordHash string `gorm:"type:varchar(255);not null;<-:create"`

	Photos []Photo
}

func (User) TableName() string {
	return "users"
}

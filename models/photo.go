package models

// Photo represents a single gallery upload. Filename is the generated storage
// key in the bucket, not the name the user uploaded under; it is unique across
// all photos and immutable once created.
type Photo struct {
	ID          uint   `gorm:"primaryKey"`
	Filename    string `gorm:"type:varchar(255);not null;<-:create"`
	Description string `gorm:"type:text;<-:create"`
	UserID      uint   `gorm:"not null;<-:create"`

	User User
}

func (Photo) TableName() string {
	return "photos"
}

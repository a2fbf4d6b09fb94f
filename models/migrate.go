package models

import "gorm.io/gorm"

// Migrate creates the users and photos tables. Users must be migrated first so
// the photos.user_id foreign key has something to reference.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Photo{},
	)
}

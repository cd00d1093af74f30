package model

import "gorm.io/gorm"

// AutoMigrate runs schema migration for every scheduling entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Doctor{},
		&Patient{},
		&Slot{},
		&Appointment{},
		&Event{},
	)
}

package database

import (
	"reservly/internal/businesses"
	"reservly/internal/policies"
	"reservly/internal/reservations"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&businesses.Business{},
		&policies.CancellationPolicy{},
		&reservations.Reservation{},
		&reservations.Cancellation{},
	)
}

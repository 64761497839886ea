package repository

import "gorm.io/gorm"

// AutoMigrate creates the full schema. Production deployments run SQL
// migrations against PostgreSQL; this path serves sqlite dev mode and
// the test suites.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&serviceModel{},
		&orderModel{},
		&reviewModel{},
		&messageModel{},
		&notificationModel{},
	)
}

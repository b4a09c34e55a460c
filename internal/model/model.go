package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 迁移全部表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		Session{},
		User{},
		Note{},
		Chapter{},
		Topic{},
		Version{},
		QuotaCounter{},
		UsageHistory{},
	)
}

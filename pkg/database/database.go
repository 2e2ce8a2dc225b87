package database

import (
	"fmt"
	"log"
	"peerlearn_backend/internal/config"
	"peerlearn_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Organization{},
		&model.Campaign{},
		&model.CampaignItem{},
		&model.Video{},
		&model.VideoQuestion{},
		&model.ResponseRecord{},
		&model.Invitation{},
		&model.GenerationJob{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认组织（首次启动时创建，便于本地联调）
	var count int64
	db.Model(&model.Organization{}).Count(&count)
	if count == 0 {
		db.Create(&model.Organization{
			Name:   "Demo Organization",
			Domain: "demo.local",
		})
	}

	return db, nil
}

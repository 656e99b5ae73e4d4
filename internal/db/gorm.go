package db

import (
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/artvitrina/portfolio-back/internal/config"
)

type (
	// User rows are provisioned by the auth service; this API only
	// updates nickname, avatar_url and password_hash.
	User struct {
		ID           uint64 `gorm:"primarykey"`
		Username     string `gorm:"unique;not null"`
		Nickname     string
		AvatarURL    string
		PasswordHash string `gorm:"not null"`
		IsAdmin      bool
	}

	Work struct {
		ID          uint64 `gorm:"primarykey"`
		UserID      *uint64
		Title       string
		Description string
		ImageURL    string
		Price       *float64
		CreatedAt   time.Time
	}

	Favorite struct {
		ID        uint64  `gorm:"primarykey"`
		UserID    uint64  `gorm:"not null;uniqueIndex:uidx_user_work"`
		WorkID    *uint64 `gorm:"uniqueIndex:uidx_user_work"`
		CreatedAt time.Time
	}
)

func NewGormClient(cfg *config.Config) (*gorm.DB, error) {
	newLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		Colorful:                  true,
		IgnoreRecordNotFoundError: false,
	})

	// Schema is owned by the migrator, so no AutoMigrate here.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	return db, nil
}

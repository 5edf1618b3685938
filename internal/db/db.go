package db

import (
	"fmt"

	"dirmirror/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Job goroutines record history concurrently, so writers wait on the lock
// instead of failing with SQLITE_BUSY.
const pragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

func Init(dbPath string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath+pragmas), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}

	if err := DB.AutoMigrate(&model.History{}, &model.Job{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	return nil
}

func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

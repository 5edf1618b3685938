package model

import (
	"time"

	"gorm.io/gorm"
)

type SyncStatus string

const (
	StatusSuccess SyncStatus = "SUCCESS"
	StatusFailed  SyncStatus = "FAILED"
)

type History struct {
	gorm.Model
	JobID    uint
	Status   SyncStatus    `gorm:"not null"`
	Kind     SyncEventKind `gorm:"not null"`
	SrcPath  string
	DstPath  string
	ErrMsg   string
	SyncedAt time.Time `gorm:"not null;index"`
}

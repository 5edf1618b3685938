package model

import "gorm.io/gorm"

type Job struct {
	gorm.Model
	Src    string `gorm:"not null"`
	Dst    string `gorm:"not null"`
	Delete bool   `gorm:"not null;default:false"`
	// Depth is the recursion limit, -1 for unbounded.
	Depth int `gorm:"not null"`
}

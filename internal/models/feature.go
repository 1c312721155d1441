package models

import (
	"time"

	"gorm.io/gorm"
)

type Feature struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Code      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	IsBeta    bool           `gorm:"not null;default:false" json:"is_beta"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

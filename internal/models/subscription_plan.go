package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionPlan struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	MonthlyPrice int64  `gorm:"not null;default:0" json:"monthly_price"`
	AnnualPrice  int64  `gorm:"not null;default:0" json:"annual_price"`
	SeatLimit    int    `gorm:"not null;default:0" json:"seat_limit"`
	// UsageLimits holds named numeric caps, e.g. {"projects": 10, "storage_gb": 5}.
	UsageLimits datatypes.JSONMap `json:"usage_limits"`
	IsActive    bool              `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relations
	Features []Feature `gorm:"many2many:plan_features" json:"features,omitempty"`
}

// HasFeatureCode reports whether the plan bundle contains a feature with the
// given code. It does not consider the feature's global active flag.
func (p *SubscriptionPlan) HasFeatureCode(code string) bool {
	for _, f := range p.Features {
		if f.Code == code {
			return true
		}
	}
	return false
}

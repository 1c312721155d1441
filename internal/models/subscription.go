package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// Live reports whether the subscription counts as the organization's current
// one. At most one live row may exist per organization.
func (s SubscriptionStatus) Live() bool {
	return s == SubscriptionTrial || s == SubscriptionActive
}

// LiveSubscriptionStatuses is used in WHERE ... IN clauses that select the
// current subscription.
var LiveSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionTrial,
	SubscriptionActive,
}

type Subscription struct {
	ID             uint64             `gorm:"primarykey" json:"id"`
	OrganizationID uint64             `gorm:"not null;index" json:"organization_id"`
	PlanID         uint64             `gorm:"not null" json:"plan_id"`
	Status         SubscriptionStatus `gorm:"type:varchar(20);not null" json:"status"`
	StartDate      time.Time          `gorm:"not null" json:"start_date"`
	EndDate        *time.Time         `json:"end_date"`
	SeatsUsed      int                `gorm:"not null;default:0" json:"seats_used"`
	// Usage holds per-key counters tracked against the plan's usage limits.
	Usage     datatypes.JSONMap `json:"usage"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relations
	Organization Organization     `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Plan         SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

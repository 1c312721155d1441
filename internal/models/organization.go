package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	// InvitationExpiryHours is editable per organization and seeds the
	// expires_at of every invitation issued for its teams.
	InvitationExpiryHours int            `gorm:"not null;default:48" json:"invitation_expiry_hours"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members       []Membership   `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	Teams         []Team         `gorm:"foreignKey:OrganizationID" json:"teams,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:OrganizationID" json:"-"`
}

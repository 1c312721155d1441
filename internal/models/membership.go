package models

import "time"

// Membership links a user to an organization. The composite primary key
// guarantees at most one row per (organization, user) pair.
type Membership struct {
	OrganizationID uint64    `gorm:"primarykey" json:"organization_id"`
	UserID         uint64    `gorm:"primarykey" json:"user_id"`
	Role           string    `gorm:"type:varchar(50);not null" json:"role"`
	JoinedAt       time.Time `json:"joined_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

const DefaultMemberRole = "member"

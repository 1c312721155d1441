package models

import (
	"time"

	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationCancelled InvitationStatus = "cancelled"
	InvitationExpired   InvitationStatus = "expired"
)

// invitationTransitions is the full transition table. Pending is the only
// non-terminal state; everything it can move to is terminal.
var invitationTransitions = map[InvitationStatus][]InvitationStatus{
	InvitationPending: {
		InvitationAccepted,
		InvitationDeclined,
		InvitationCancelled,
		InvitationExpired,
	},
	InvitationAccepted:  {},
	InvitationDeclined:  {},
	InvitationCancelled: {},
	InvitationExpired:   {},
}

// CanTransitionTo reports whether the state machine allows moving to target.
func (s InvitationStatus) CanTransitionTo(target InvitationStatus) bool {
	for _, next := range invitationTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s InvitationStatus) Terminal() bool {
	return len(invitationTransitions[s]) == 0
}

type Invitation struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	OrganizationID uint64           `gorm:"not null;index" json:"organization_id"`
	TeamID         uint64           `gorm:"not null;index" json:"team_id"`
	Email          string           `gorm:"type:varchar(255);not null" json:"email"`
	Role           string           `gorm:"type:varchar(50)" json:"role"`
	Token          string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Status         InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Team         Team         `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

// ExpiredAt reports whether the invitation has passed its deadline at the
// given instant. Invitations without a deadline never expire.
func (i *Invitation) ExpiredAt(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

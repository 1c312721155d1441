package dto

import (
	"time"

	"github.com/teamforge/teamforge-api/internal/models"
)

// InvitationDTO represents an invitation in API responses. The token is
// only included in responses to the administrator who issued or resent it.
type InvitationDTO struct {
	ID             uint64                  `json:"id"`
	OrganizationID uint64                  `json:"organization_id"`
	TeamID         uint64                  `json:"team_id"`
	Email          string                  `json:"email"`
	Role           string                  `json:"role,omitempty"`
	Status         models.InvitationStatus `json:"status"`
	Token          string                  `json:"token,omitempty"`
	ExpiresAt      *time.Time              `json:"expires_at"`
	CreatedAt      time.Time               `json:"created_at"`
}

// AcceptedInvitationDTO is the compound result of redeeming a token.
type AcceptedInvitationDTO struct {
	Invitation InvitationDTO `json:"invitation"`
	Membership MembershipDTO `json:"membership"`
}

// ToInvitationDTO converts an Invitation model to InvitationDTO
func ToInvitationDTO(invitation models.Invitation, includeToken bool) InvitationDTO {
	dto := InvitationDTO{
		ID:             invitation.ID,
		OrganizationID: invitation.OrganizationID,
		TeamID:         invitation.TeamID,
		Email:          invitation.Email,
		Role:           invitation.Role,
		Status:         invitation.Status,
		ExpiresAt:      invitation.ExpiresAt,
		CreatedAt:      invitation.CreatedAt,
	}
	if includeToken {
		dto.Token = invitation.Token
	}
	return dto
}

// ToInvitationListDTO converts invitations for the team listing
func ToInvitationListDTO(invitations []models.Invitation) []InvitationDTO {
	items := make([]InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		items[i] = ToInvitationDTO(invitation, false)
	}
	return items
}

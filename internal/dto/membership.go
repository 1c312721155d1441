package dto

import (
	"time"

	"github.com/teamforge/teamforge-api/internal/models"
)

// MembershipDTO is the narrow reference shape: IDs only. Expanded relations
// appear solely in the projections that explicitly join them.
type MembershipDTO struct {
	OrganizationID uint64    `json:"organization_id"`
	UserID         uint64    `json:"user_id"`
	Role           string    `json:"role"`
	JoinedAt       time.Time `json:"joined_at"`
}

// MembershipWithOrganizationDTO expands the organization side; returned by
// the orgs-for-user projection.
type MembershipWithOrganizationDTO struct {
	MembershipDTO
	Organization OrganizationDTO `json:"organization"`
}

// MembershipWithUserDTO expands the user side; returned by the
// users-in-org projection.
type MembershipWithUserDTO struct {
	MembershipDTO
	User UserDTO `json:"user"`
}

// ToMembershipDTO converts a Membership model to its reference DTO
func ToMembershipDTO(member models.Membership) MembershipDTO {
	return MembershipDTO{
		OrganizationID: member.OrganizationID,
		UserID:         member.UserID,
		Role:           member.Role,
		JoinedAt:       member.JoinedAt,
	}
}

// ToMembershipWithOrganizationDTO converts a membership with its organization preloaded
func ToMembershipWithOrganizationDTO(member models.Membership) MembershipWithOrganizationDTO {
	return MembershipWithOrganizationDTO{
		MembershipDTO: ToMembershipDTO(member),
		Organization:  ToOrganizationDTO(member.Organization, false),
	}
}

// ToMembershipWithUserDTO converts a membership with its user preloaded
func ToMembershipWithUserDTO(member models.Membership) MembershipWithUserDTO {
	return MembershipWithUserDTO{
		MembershipDTO: ToMembershipDTO(member),
		User:          ToUserDTO(member.User),
	}
}

package dto

import (
	"github.com/teamforge/teamforge-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID                    uint64 `json:"id"`
	Name                  string `json:"name"`
	InvitationExpiryHours int    `json:"invitation_expiry_hours,omitempty"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID             uint64 `json:"id"`
	OrganizationID uint64 `json:"organization_id"`
	Name           string `json:"name"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization, includeSettings bool) OrganizationDTO {
	dto := OrganizationDTO{
		ID:   org.ID,
		Name: org.Name,
	}
	if includeSettings {
		dto.InvitationExpiryHours = org.InvitationExpiryHours
	}
	return dto
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:             team.ID,
		OrganizationID: team.OrganizationID,
		Name:           team.Name,
	}
}

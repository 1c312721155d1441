package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamforge/teamforge-api/internal/constants"
	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrInvalidOrganizationName = errors.New("organization name cannot be empty")
	ErrTeamNotFound            = errors.New("team not found")
	ErrInvalidTeamName         = errors.New("team name cannot be empty")
)

// OrganizationService provides business logic for organizations and their
// teams.
type OrganizationService struct {
	orgRepo        repository.OrganizationRepository
	membershipRepo repository.MembershipRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	membershipRepo repository.MembershipRepository,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name    string
	OwnerID uint64
}

// CreateOrganization creates a new organization and assigns the owner.
func (s *OrganizationService) CreateOrganization(input CreateOrganizationInput) (*models.Organization, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	org := &models.Organization{
		Name:                  input.Name,
		InvitationExpiryHours: constants.DefaultInvitationExpiryHours,
	}

	if err := s.orgRepo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	member := &models.Membership{
		OrganizationID: org.ID,
		UserID:         input.OwnerID,
		Role:           "owner",
		JoinedAt:       time.Now(),
	}

	if err := s.membershipRepo.Add(member); err != nil {
		return nil, fmt.Errorf("failed to add owner to organization: %w", err)
	}

	return org, nil
}

// GetOrganization returns an organization by ID.
func (s *OrganizationService) GetOrganization(orgID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// UpdateOrganizationInput carries the editable organization settings.
type UpdateOrganizationInput struct {
	Name                  *string
	InvitationExpiryHours *int
}

// UpdateOrganization updates the organization's name and settings.
func (s *OrganizationService) UpdateOrganization(orgID uint64, input UpdateOrganizationInput) (*models.Organization, error) {
	org, err := s.GetOrganization(orgID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidOrganizationName
		}
		org.Name = *input.Name
	}
	if input.InvitationExpiryHours != nil && *input.InvitationExpiryHours > 0 {
		org.InvitationExpiryHours = *input.InvitationExpiryHours
	}

	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// CreateTeamInput represents parameters to create a team.
type CreateTeamInput struct {
	OrganizationID uint64
	Name           string
}

// CreateTeam creates a team inside an organization.
func (s *OrganizationService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidTeamName
	}

	if _, err := s.GetOrganization(input.OrganizationID); err != nil {
		return nil, err
	}

	team := &models.Team{
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
	}

	if err := s.orgRepo.CreateTeam(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// ListTeams returns all teams of an organization.
func (s *OrganizationService) ListTeams(orgID uint64) ([]models.Team, error) {
	teams, err := s.orgRepo.ListTeams(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

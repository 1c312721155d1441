package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/repository"
	"github.com/teamforge/teamforge-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrMembershipExists     = errors.New("user is already a member of this organization")
	ErrMembershipUserAbsent = errors.New("user not found")
	ErrMembershipOrgAbsent  = errors.New("organization not found")
)

// MembershipService is the registry of which user belongs to which
// organization. It is the authority the access checks consult.
type MembershipService struct {
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	orgRepo        repository.OrganizationRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
	}
}

// AddMemberInput represents parameters to add a user to an organization.
type AddMemberInput struct {
	UserID         uint64
	OrganizationID uint64
	Role           string
}

// AddMember adds a user to an organization. Adding an existing pair fails
// with ErrMembershipExists.
func (s *MembershipService) AddMember(input AddMemberInput) (*models.Membership, error) {
	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipUserAbsent
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.orgRepo.FindByID(input.OrganizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipOrgAbsent
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if _, err := s.membershipRepo.Find(input.OrganizationID, input.UserID); err == nil {
		return nil, ErrMembershipExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = models.DefaultMemberRole
	}

	member := &models.Membership{
		OrganizationID: input.OrganizationID,
		UserID:         input.UserID,
		Role:           role,
		JoinedAt:       time.Now(),
	}

	if err := s.membershipRepo.Add(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// RemoveMember removes a user from an organization. Removing an absent pair
// is a success no-op, so a remove that races with another remove still
// succeeds.
func (s *MembershipService) RemoveMember(userID, organizationID uint64) error {
	if err := s.membershipRepo.Remove(organizationID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// ListOrganizationsForUser returns the user's memberships with organizations
// expanded.
func (s *MembershipService) ListOrganizationsForUser(userID uint64) ([]models.Membership, error) {
	memberships, err := s.membershipRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, nil
}

// ListUsersInOrganization returns a page of the organization's memberships
// with users expanded, plus the total member count.
func (s *MembershipService) ListUsersInOrganization(organizationID uint64, params utils.PaginationParams) ([]models.Membership, int64, error) {
	members, total, err := s.membershipRepo.ListByOrganization(organizationID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

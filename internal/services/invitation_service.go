package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamforge/teamforge-api/internal/constants"
	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/repository"
	"github.com/teamforge/teamforge-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationTeamAbsent  = errors.New("team not found")
	ErrInvitationEmailEmpty  = errors.New("invitation email is required")
	ErrInvitationNotPending  = errors.New("invitation is not pending")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrInvitationHashFailed  = errors.New("failed to hash password")
	ErrInvitationShortSecret = errors.New("password too short")
)

// InvitationService owns the invitation state machine: pending is the only
// live state, every transition out of it is terminal, and expiry is
// evaluated lazily against the caller's clock.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	orgRepo        repository.OrganizationRepository
	now            func() time.Time
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	orgRepo repository.OrganizationRepository,
) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		orgRepo:        orgRepo,
		now:            time.Now,
	}
}

// SetClock overrides the time source (used for testing expiry).
func (s *InvitationService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateInvitationInput represents parameters to issue a new invitation.
type CreateInvitationInput struct {
	TeamID uint64
	Email  string
	Role   string
}

// CreateInvitation issues a pending invitation for a team. The deadline
// comes from the owning organization's invitation-expiry setting.
func (s *InvitationService) CreateInvitation(input CreateInvitationInput) (*models.Invitation, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrInvitationEmailEmpty
	}

	team, err := s.orgRepo.FindTeamByID(input.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationTeamAbsent
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	org, err := s.orgRepo.FindByID(team.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	expiryHours := org.InvitationExpiryHours
	if expiryHours <= 0 {
		expiryHours = constants.DefaultInvitationExpiryHours
	}
	expiresAt := s.now().Add(time.Duration(expiryHours) * time.Hour)

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = models.DefaultMemberRole
	}

	invitation := &models.Invitation{
		OrganizationID: team.OrganizationID,
		TeamID:         team.ID,
		Email:          email,
		Role:           role,
		Token:          utils.GenerateInvitationToken(),
		Status:         models.InvitationPending,
		ExpiresAt:      &expiresAt,
	}

	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return invitation, nil
}

// ListInvitations returns the invitations issued for a team.
func (s *InvitationService) ListInvitations(teamID uint64) ([]models.Invitation, error) {
	invitations, err := s.invitationRepo.ListByTeam(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}

// ResendInvitation regenerates the token and deadline of a pending
// invitation. Any other state fails with ErrInvitationNotPending.
func (s *InvitationService) ResendInvitation(id uint64) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationNotPending
	}

	org, err := s.orgRepo.FindByID(invitation.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	expiryHours := org.InvitationExpiryHours
	if expiryHours <= 0 {
		expiryHours = constants.DefaultInvitationExpiryHours
	}
	expiresAt := s.now().Add(time.Duration(expiryHours) * time.Hour)

	invitation.Token = utils.GenerateInvitationToken()
	invitation.ExpiresAt = &expiresAt

	if err := s.invitationRepo.Update(invitation); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	return invitation, nil
}

// AcceptProfile carries the optional profile fields submitted with an
// accept call. They only matter when the invited email has no user yet.
type AcceptProfile struct {
	FirstName string
	LastName  string
	Password  string
}

// AcceptInvitation redeems a token: the invitation transitions to accepted
// and the invited user joins the organization, all in one transaction.
// A token past its deadline transitions to expired and fails.
func (s *InvitationService) AcceptInvitation(token string, profile AcceptProfile) (*models.Invitation, *models.Membership, error) {
	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvitationNotFound
		}
		return nil, nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Status != models.InvitationPending {
		return nil, nil, ErrInvitationNotPending
	}

	if invitation.ExpiredAt(s.now()) {
		// Lazy expiry: persist the terminal state before failing. A lost
		// race here just means another caller already expired it.
		if err := s.invitationRepo.TransitionStatus(invitation.ID, models.InvitationPending, models.InvitationExpired); err != nil &&
			!errors.Is(err, repository.ErrStatusTransition) {
			return nil, nil, fmt.Errorf("failed to expire invitation: %w", err)
		}
		invitation.Status = models.InvitationExpired
		return nil, nil, ErrInvitationExpired
	}

	user := &models.User{
		Email:     invitation.Email,
		FirstName: strings.TrimSpace(profile.FirstName),
		LastName:  strings.TrimSpace(profile.LastName),
	}
	if profile.Password != "" {
		if len(profile.Password) < constants.MinPasswordLength {
			return nil, nil, ErrInvitationShortSecret
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(profile.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, nil, ErrInvitationHashFailed
		}
		user.PasswordHash = string(hash)
	}

	member := &models.Membership{
		OrganizationID: invitation.OrganizationID,
		Role:           invitation.Role,
		JoinedAt:       s.now(),
	}

	if err := s.invitationRepo.Accept(invitation.ID, user, member); err != nil {
		if errors.Is(err, repository.ErrStatusTransition) {
			return nil, nil, ErrInvitationNotPending
		}
		return nil, nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	invitation.Status = models.InvitationAccepted
	return invitation, member, nil
}

// DeclineInvitation transitions a pending invitation to declined.
func (s *InvitationService) DeclineInvitation(token string) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if err := s.invitationRepo.TransitionStatus(invitation.ID, models.InvitationPending, models.InvitationDeclined); err != nil {
		if errors.Is(err, repository.ErrStatusTransition) {
			return nil, ErrInvitationNotPending
		}
		return nil, fmt.Errorf("failed to decline invitation: %w", err)
	}

	invitation.Status = models.InvitationDeclined
	return invitation, nil
}

// CancelInvitation is the administrative withdrawal of a pending invitation.
func (s *InvitationService) CancelInvitation(id uint64) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if err := s.invitationRepo.TransitionStatus(invitation.ID, models.InvitationPending, models.InvitationCancelled); err != nil {
		if errors.Is(err, repository.ErrStatusTransition) {
			return nil, ErrInvitationNotPending
		}
		return nil, fmt.Errorf("failed to cancel invitation: %w", err)
	}

	invitation.Status = models.InvitationCancelled
	return invitation, nil
}

// UpdateInvitationInput carries the editable invitation fields. Nil means
// leave unchanged.
type UpdateInvitationInput struct {
	Email *string
	Role  *string
}

// UpdateInvitation edits a pending invitation.
func (s *InvitationService) UpdateInvitation(id uint64, input UpdateInvitationInput) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationNotPending
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, ErrInvitationEmailEmpty
		}
		invitation.Email = email
	}
	if input.Role != nil {
		invitation.Role = strings.TrimSpace(*input.Role)
	}

	if err := s.invitationRepo.Update(invitation); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	return invitation, nil
}

// DeleteInvitation purges the record regardless of state.
func (s *InvitationService) DeleteInvitation(id uint64) error {
	if _, err := s.invitationRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to find invitation: %w", err)
	}

	if err := s.invitationRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	return nil
}

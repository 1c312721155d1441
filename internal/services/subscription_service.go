package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSubscriptionOrgAbsent    = errors.New("organization not found")
	ErrSubscriptionPlanAbsent   = errors.New("subscription plan not found")
	ErrNoActiveSubscription     = errors.New("organization has no active subscription")
	ErrInvalidSubscriptionState = errors.New("new subscriptions must start as trial or active")
)

// SubscriptionService keeps the ledger of which plan an organization is on.
// Switching plans never mutates an existing row: the live row is closed and
// a new one inserted, so the history stays intact.
type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	orgRepo          repository.OrganizationRepository
	catalogRepo      repository.CatalogRepository
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	orgRepo repository.OrganizationRepository,
	catalogRepo repository.CatalogRepository,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		orgRepo:          orgRepo,
		catalogRepo:      catalogRepo,
	}
}

// SubscribeInput represents parameters to open or switch a subscription.
type SubscribeInput struct {
	OrganizationID uint64
	PlanID         uint64
	Status         models.SubscriptionStatus
	SeatsUsed      int
}

// Subscribe opens a subscription for the organization, closing any live one
// first. Status defaults to active; trial is the only other opening status.
func (s *SubscriptionService) Subscribe(input SubscribeInput) (*models.Subscription, error) {
	status := input.Status
	if status == "" {
		status = models.SubscriptionActive
	}
	if !status.Live() {
		return nil, ErrInvalidSubscriptionState
	}

	if _, err := s.orgRepo.FindByID(input.OrganizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionOrgAbsent
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if _, err := s.catalogRepo.FindPlanByID(input.PlanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionPlanAbsent
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	sub := &models.Subscription{
		OrganizationID: input.OrganizationID,
		PlanID:         input.PlanID,
		Status:         status,
		StartDate:      time.Now(),
		SeatsUsed:      input.SeatsUsed,
		Usage:          datatypes.JSONMap{},
	}

	if err := s.subscriptionRepo.Switch(sub); err != nil {
		return nil, fmt.Errorf("failed to open subscription: %w", err)
	}

	return sub, nil
}

// Cancel closes the organization's live subscription.
func (s *SubscriptionService) Cancel(organizationID uint64) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.CloseActive(organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return sub, nil
}

// GetActive returns the organization's live subscription.
func (s *SubscriptionService) GetActive(organizationID uint64) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.FindActive(organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, fmt.Errorf("failed to find active subscription: %w", err)
	}
	return sub, nil
}

// ListHistory returns all ledger rows of the organization, most recent
// first.
func (s *SubscriptionService) ListHistory(organizationID uint64) ([]models.Subscription, error) {
	subs, err := s.subscriptionRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

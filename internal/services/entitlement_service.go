package services

import (
	"errors"
	"fmt"

	"github.com/teamforge/teamforge-api/internal/repository"
	"gorm.io/gorm"
)

// EntitlementService answers "can this organization use this feature now".
// It is the single seam feature-gated callers go through; the check is
// side-effect-free and cheap enough to run on every gated action.
type EntitlementService struct {
	subscriptionRepo repository.SubscriptionRepository
}

// NewEntitlementService creates a new EntitlementService.
func NewEntitlementService(subscriptionRepo repository.SubscriptionRepository) *EntitlementService {
	return &EntitlementService{
		subscriptionRepo: subscriptionRepo,
	}
}

// HasFeature reports whether the organization's current plan grants the
// feature. The answer is false when the organization has no live
// subscription, the plan is inactive, the plan does not bundle the feature,
// or the feature is globally switched off.
func (s *EntitlementService) HasFeature(organizationID uint64, featureCode string) (bool, error) {
	sub, err := s.subscriptionRepo.FindActiveWithPlan(organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve subscription: %w", err)
	}

	if !sub.Plan.IsActive {
		return false, nil
	}

	for _, feature := range sub.Plan.Features {
		if feature.Code == featureCode {
			return feature.IsActive, nil
		}
	}

	return false, nil
}

package dto

import (
	"time"

	"github.com/teamforge/teamforge-api/internal/models"
)

// SubscriptionDTO is the narrow reference shape of a ledger row.
type SubscriptionDTO struct {
	ID             uint64                    `json:"id"`
	OrganizationID uint64                    `json:"organization_id"`
	PlanID         uint64                    `json:"plan_id"`
	Status         models.SubscriptionStatus `json:"status"`
	StartDate      time.Time                 `json:"start_date"`
	EndDate        *time.Time                `json:"end_date"`
	SeatsUsed      int                       `json:"seats_used"`
	Usage          map[string]interface{}    `json:"usage,omitempty"`
}

// SubscriptionWithPlanDTO expands the plan; returned by history listings.
type SubscriptionWithPlanDTO struct {
	SubscriptionDTO
	Plan PlanDTO `json:"plan"`
}

// HasFeatureResponse is the entitlement check result.
type HasFeatureResponse struct {
	HasFeature bool `json:"hasFeature"`
}

// ToSubscriptionDTO converts a Subscription model to its reference DTO
func ToSubscriptionDTO(sub models.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:             sub.ID,
		OrganizationID: sub.OrganizationID,
		PlanID:         sub.PlanID,
		Status:         sub.Status,
		StartDate:      sub.StartDate,
		EndDate:        sub.EndDate,
		SeatsUsed:      sub.SeatsUsed,
		Usage:          sub.Usage,
	}
}

// ToSubscriptionWithPlanDTO converts a subscription with its plan preloaded
func ToSubscriptionWithPlanDTO(sub models.Subscription) SubscriptionWithPlanDTO {
	return SubscriptionWithPlanDTO{
		SubscriptionDTO: ToSubscriptionDTO(sub),
		Plan:            ToPlanDTO(sub.Plan),
	}
}

// ToSubscriptionHistoryDTO converts ledger rows for the history listing
func ToSubscriptionHistoryDTO(subs []models.Subscription) []SubscriptionWithPlanDTO {
	items := make([]SubscriptionWithPlanDTO, len(subs))
	for i, sub := range subs {
		items[i] = ToSubscriptionWithPlanDTO(sub)
	}
	return items
}

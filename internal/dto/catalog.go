package dto

import (
	"github.com/teamforge/teamforge-api/internal/models"
)

// FeatureDTO represents a catalog feature in API responses
type FeatureDTO struct {
	ID       uint64 `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
	IsBeta   bool   `json:"is_beta"`
}

// PlanDTO represents a subscription plan in API responses
type PlanDTO struct {
	ID           uint64                 `json:"id"`
	Name         string                 `json:"name"`
	MonthlyPrice int64                  `json:"monthly_price"`
	AnnualPrice  int64                  `json:"annual_price"`
	SeatLimit    int                    `json:"seat_limit"`
	UsageLimits  map[string]interface{} `json:"usage_limits,omitempty"`
	IsActive     bool                   `json:"is_active"`
	Features     []FeatureDTO           `json:"features"`
}

// ToFeatureDTO converts a Feature model to FeatureDTO
func ToFeatureDTO(feature models.Feature) FeatureDTO {
	return FeatureDTO{
		ID:       feature.ID,
		Code:     feature.Code,
		Name:     feature.Name,
		IsActive: feature.IsActive,
		IsBeta:   feature.IsBeta,
	}
}

// ToFeatureListDTO converts features for list responses
func ToFeatureListDTO(features []models.Feature) []FeatureDTO {
	items := make([]FeatureDTO, len(features))
	for i, feature := range features {
		items[i] = ToFeatureDTO(feature)
	}
	return items
}

// ToPlanDTO converts a SubscriptionPlan model to PlanDTO
func ToPlanDTO(plan models.SubscriptionPlan) PlanDTO {
	return PlanDTO{
		ID:           plan.ID,
		Name:         plan.Name,
		MonthlyPrice: plan.MonthlyPrice,
		AnnualPrice:  plan.AnnualPrice,
		SeatLimit:    plan.SeatLimit,
		UsageLimits:  plan.UsageLimits,
		IsActive:     plan.IsActive,
		Features:     ToFeatureListDTO(plan.Features),
	}
}

// ToPlanListDTO converts plans for list responses
func ToPlanListDTO(plans []models.SubscriptionPlan) []PlanDTO {
	items := make([]PlanDTO, len(plans))
	for i, plan := range plans {
		items[i] = ToPlanDTO(plan)
	}
	return items
}

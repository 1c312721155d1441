package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrFeatureNotFound     = errors.New("feature not found")
	ErrFeatureCodeEmpty    = errors.New("feature code cannot be empty")
	ErrFeatureNameEmpty    = errors.New("feature name cannot be empty")
	ErrFeatureCodeTaken    = errors.New("feature code already in use")
	ErrPlanNotFound        = errors.New("subscription plan not found")
	ErrPlanNameEmpty       = errors.New("plan name cannot be empty")
	ErrPlanFeatureMissing  = errors.New("plan references a feature that does not exist")
)

// CatalogService manages the global feature and plan catalog. Catalog rows
// are not tenant-scoped; activation flags only influence how the
// entitlement evaluator treats them.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo repository.CatalogRepository) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
	}
}

// FeatureInput represents the writable feature fields.
type FeatureInput struct {
	Code   string
	Name   string
	IsBeta bool
}

// CreateFeature creates a feature with a unique code.
func (s *CatalogService) CreateFeature(input FeatureInput) (*models.Feature, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, ErrFeatureCodeEmpty
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrFeatureNameEmpty
	}

	if _, err := s.catalogRepo.FindFeatureByCode(code); err == nil {
		return nil, ErrFeatureCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check feature code: %w", err)
	}

	feature := &models.Feature{
		Code:     code,
		Name:     input.Name,
		IsActive: true,
		IsBeta:   input.IsBeta,
	}

	if err := s.catalogRepo.CreateFeature(feature); err != nil {
		return nil, fmt.Errorf("failed to create feature: %w", err)
	}

	return feature, nil
}

// GetFeature retrieves a feature by ID.
func (s *CatalogService) GetFeature(id uint64) (*models.Feature, error) {
	feature, err := s.catalogRepo.FindFeatureByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeatureNotFound
		}
		return nil, fmt.Errorf("failed to find feature: %w", err)
	}
	return feature, nil
}

// ListFeatures returns the full feature catalog.
func (s *CatalogService) ListFeatures() ([]models.Feature, error) {
	features, err := s.catalogRepo.ListFeatures()
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	return features, nil
}

// UpdateFeature updates a feature's code, name and beta flag. Code
// uniqueness is re-checked when the code changes.
func (s *CatalogService) UpdateFeature(id uint64, input FeatureInput) (*models.Feature, error) {
	feature, err := s.GetFeature(id)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, ErrFeatureCodeEmpty
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrFeatureNameEmpty
	}

	if code != feature.Code {
		if _, err := s.catalogRepo.FindFeatureByCode(code); err == nil {
			return nil, ErrFeatureCodeTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check feature code: %w", err)
		}
	}

	feature.Code = code
	feature.Name = input.Name
	feature.IsBeta = input.IsBeta

	if err := s.catalogRepo.UpdateFeature(feature); err != nil {
		return nil, fmt.Errorf("failed to update feature: %w", err)
	}

	return feature, nil
}

// SetFeatureActive toggles the feature's global availability. Plans keep
// referencing an inactive feature; only entitlement answers change.
func (s *CatalogService) SetFeatureActive(id uint64, active bool) (*models.Feature, error) {
	feature, err := s.GetFeature(id)
	if err != nil {
		return nil, err
	}

	feature.IsActive = active
	if err := s.catalogRepo.UpdateFeature(feature); err != nil {
		return nil, fmt.Errorf("failed to update feature: %w", err)
	}

	return feature, nil
}

// DeleteFeature removes a feature from the catalog.
func (s *CatalogService) DeleteFeature(id uint64) error {
	if _, err := s.GetFeature(id); err != nil {
		return err
	}

	if err := s.catalogRepo.DeleteFeature(id); err != nil {
		return fmt.Errorf("failed to delete feature: %w", err)
	}

	return nil
}

// PlanInput represents the writable plan fields.
type PlanInput struct {
	Name         string
	MonthlyPrice int64
	AnnualPrice  int64
	SeatLimit    int
	UsageLimits  map[string]interface{}
	FeatureIDs   []uint64
}

// CreatePlan creates a plan bundling the referenced features.
func (s *CatalogService) CreatePlan(input PlanInput) (*models.SubscriptionPlan, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrPlanNameEmpty
	}

	features, err := s.resolveFeatures(input.FeatureIDs)
	if err != nil {
		return nil, err
	}

	plan := &models.SubscriptionPlan{
		Name:         input.Name,
		MonthlyPrice: input.MonthlyPrice,
		AnnualPrice:  input.AnnualPrice,
		SeatLimit:    input.SeatLimit,
		UsageLimits:  datatypes.JSONMap(input.UsageLimits),
		IsActive:     true,
		Features:     features,
	}

	if err := s.catalogRepo.CreatePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return plan, nil
}

// GetPlan retrieves a plan by ID with its features.
func (s *CatalogService) GetPlan(id uint64) (*models.SubscriptionPlan, error) {
	plan, err := s.catalogRepo.FindPlanByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	return plan, nil
}

// ListPlans returns the full plan catalog.
func (s *CatalogService) ListPlans() ([]models.SubscriptionPlan, error) {
	plans, err := s.catalogRepo.ListPlans()
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// UpdatePlan updates plan columns and replaces its feature set.
func (s *CatalogService) UpdatePlan(id uint64, input PlanInput) (*models.SubscriptionPlan, error) {
	plan, err := s.GetPlan(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrPlanNameEmpty
	}

	features, err := s.resolveFeatures(input.FeatureIDs)
	if err != nil {
		return nil, err
	}

	plan.Name = input.Name
	plan.MonthlyPrice = input.MonthlyPrice
	plan.AnnualPrice = input.AnnualPrice
	plan.SeatLimit = input.SeatLimit
	plan.UsageLimits = datatypes.JSONMap(input.UsageLimits)

	if err := s.catalogRepo.UpdatePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	if err := s.catalogRepo.ReplacePlanFeatures(plan, features); err != nil {
		return nil, fmt.Errorf("failed to replace plan features: %w", err)
	}

	return plan, nil
}

// SetPlanActive toggles whether the plan grants entitlements.
func (s *CatalogService) SetPlanActive(id uint64, active bool) (*models.SubscriptionPlan, error) {
	plan, err := s.GetPlan(id)
	if err != nil {
		return nil, err
	}

	plan.IsActive = active
	if err := s.catalogRepo.UpdatePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	return plan, nil
}

// DeletePlan removes a plan from the catalog.
func (s *CatalogService) DeletePlan(id uint64) error {
	if _, err := s.GetPlan(id); err != nil {
		return err
	}

	if err := s.catalogRepo.DeletePlan(id); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	return nil
}

func (s *CatalogService) resolveFeatures(ids []uint64) ([]models.Feature, error) {
	features, err := s.catalogRepo.FindFeaturesByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load features: %w", err)
	}
	if len(features) != len(ids) {
		return nil, ErrPlanFeatureMissing
	}
	return features, nil
}

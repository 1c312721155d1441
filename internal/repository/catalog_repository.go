package repository

import (
	"github.com/teamforge/teamforge-api/internal/models"
	"gorm.io/gorm"
)

// GormCatalogRepository is a GORM implementation of CatalogRepository
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &GormCatalogRepository{db: db}
}

// CreateFeature creates a new feature
func (r *GormCatalogRepository) CreateFeature(feature *models.Feature) error {
	return r.db.Create(feature).Error
}

// FindFeatureByID finds a feature by ID
func (r *GormCatalogRepository) FindFeatureByID(id uint64) (*models.Feature, error) {
	var feature models.Feature
	if err := r.db.First(&feature, id).Error; err != nil {
		return nil, err
	}
	return &feature, nil
}

// FindFeatureByCode finds a feature by its unique code
func (r *GormCatalogRepository) FindFeatureByCode(code string) (*models.Feature, error) {
	var feature models.Feature
	if err := r.db.Where("code = ?", code).First(&feature).Error; err != nil {
		return nil, err
	}
	return &feature, nil
}

// ListFeatures lists all features
func (r *GormCatalogRepository) ListFeatures() ([]models.Feature, error) {
	var features []models.Feature
	if err := r.db.Order("id").Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// FindFeaturesByIDs loads the features with the given IDs
func (r *GormCatalogRepository) FindFeaturesByIDs(ids []uint64) ([]models.Feature, error) {
	var features []models.Feature
	if len(ids) == 0 {
		return features, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// UpdateFeature updates a feature
func (r *GormCatalogRepository) UpdateFeature(feature *models.Feature) error {
	return r.db.Save(feature).Error
}

// DeleteFeature soft-deletes a feature
func (r *GormCatalogRepository) DeleteFeature(id uint64) error {
	return r.db.Delete(&models.Feature{}, id).Error
}

// CreatePlan creates a plan with its feature associations
func (r *GormCatalogRepository) CreatePlan(plan *models.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

// FindPlanByID finds a plan by ID with features expanded
func (r *GormCatalogRepository) FindPlanByID(id uint64) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.Preload("Features").First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListPlans lists all plans with features expanded
func (r *GormCatalogRepository) ListPlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if err := r.db.Preload("Features").Order("id").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdatePlan updates plan columns. Feature associations are managed through
// ReplacePlanFeatures only.
func (r *GormCatalogRepository) UpdatePlan(plan *models.SubscriptionPlan) error {
	return r.db.Omit("Features").Save(plan).Error
}

// ReplacePlanFeatures replaces the plan's feature set
func (r *GormCatalogRepository) ReplacePlanFeatures(plan *models.SubscriptionPlan, features []models.Feature) error {
	if err := r.db.Model(plan).Association("Features").Replace(features); err != nil {
		return err
	}
	plan.Features = features
	return nil
}

// DeletePlan soft-deletes a plan
func (r *GormCatalogRepository) DeletePlan(id uint64) error {
	return r.db.Delete(&models.SubscriptionPlan{}, id).Error
}

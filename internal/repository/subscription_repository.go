package repository

import (
	"time"

	"github.com/teamforge/teamforge-api/internal/models"
	"gorm.io/gorm"
)

// GormSubscriptionRepository is a GORM implementation of SubscriptionRepository
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindActive finds the organization's live (trial or active) subscription
func (r *GormSubscriptionRepository) FindActive(organizationID uint64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("organization_id = ? AND status IN ?", organizationID, models.LiveSubscriptionStatuses).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindActiveWithPlan is FindActive with the plan and its features expanded
func (r *GormSubscriptionRepository) FindActiveWithPlan(organizationID uint64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Preload("Plan").Preload("Plan.Features").
		Where("organization_id = ? AND status IN ?", organizationID, models.LiveSubscriptionStatuses).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByOrganization lists the full ledger, most recent first
func (r *GormSubscriptionRepository) ListByOrganization(organizationID uint64) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.Preload("Plan").
		Where("organization_id = ?", organizationID).
		Order("start_date DESC, id DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Switch closes any live subscription of the organization and inserts the
// new one. Both statements run inside one transaction so there is no window
// where two live rows exist.
func (r *GormSubscriptionRepository) Switch(sub *models.Subscription) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.Subscription{}).
			Where("organization_id = ? AND status IN ?", sub.OrganizationID, models.LiveSubscriptionStatuses).
			Updates(map[string]interface{}{
				"status":   models.SubscriptionCanceled,
				"end_date": now,
			}).Error; err != nil {
			return err
		}

		return tx.Create(sub).Error
	})
}

// CloseActive cancels the live subscription and returns the closed row.
// gorm.ErrRecordNotFound propagates when the organization has none.
func (r *GormSubscriptionRepository) CloseActive(organizationID uint64) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ? AND status IN ?", organizationID, models.LiveSubscriptionStatuses).
			First(&sub).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&sub).Updates(map[string]interface{}{
			"status":   models.SubscriptionCanceled,
			"end_date": now,
		}).Error; err != nil {
			return err
		}

		sub.Status = models.SubscriptionCanceled
		sub.EndDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

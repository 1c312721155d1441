package repository

import (
	"github.com/teamforge/teamforge-api/internal/database"
	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/utils"
	"gorm.io/gorm"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Add inserts a membership row
func (r *GormMembershipRepository) Add(member *models.Membership) error {
	return r.db.Create(member).Error
}

// Remove deletes the membership row for the pair. Zero affected rows is
// still success: removal of an absent member is a no-op.
func (r *GormMembershipRepository) Remove(organizationID, userID uint64) error {
	return r.db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Delete(&models.Membership{}).Error
}

// Find finds a specific membership
func (r *GormMembershipRepository) Find(organizationID, userID uint64) (*models.Membership, error) {
	var member models.Membership
	if err := r.db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByUser lists all memberships of a user with organizations expanded
func (r *GormMembershipRepository) ListByUser(userID uint64) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByOrganization lists a page of the organization's memberships with
// users expanded, plus the total member count
func (r *GormMembershipRepository) ListByOrganization(organizationID uint64, params utils.PaginationParams) ([]models.Membership, int64, error) {
	query := r.db.Model(&models.Membership{}).
		Where("organization_id = ?", organizationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []models.Membership
	if err := query.Preload("User").
		Scopes(database.Paginate(params)).
		Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

package repository

import (
	"github.com/teamforge/teamforge-api/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// CreateTeam creates a team inside an organization
func (r *GormOrganizationRepository) CreateTeam(team *models.Team) error {
	return r.db.Create(team).Error
}

// FindTeamByID finds a team by ID
func (r *GormOrganizationRepository) FindTeamByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListTeams lists all teams of an organization
func (r *GormOrganizationRepository) ListTeams(organizationID uint64) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Where("organization_id = ?", organizationID).Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

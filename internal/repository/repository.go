package repository

import (
	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// OrganizationRepository defines the interface for organization and team data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// CreateTeam creates a team inside an organization
	CreateTeam(team *models.Team) error

	// FindTeamByID finds a team by ID
	FindTeamByID(id uint64) (*models.Team, error)

	// ListTeams lists all teams of an organization
	ListTeams(organizationID uint64) ([]models.Team, error)
}

// MembershipRepository defines the interface for the user/organization pivot
type MembershipRepository interface {
	// Add inserts a membership row
	Add(member *models.Membership) error

	// Remove deletes the membership row for the pair; deleting an absent
	// pair is not an error
	Remove(organizationID, userID uint64) error

	// Find finds a specific membership
	Find(organizationID, userID uint64) (*models.Membership, error)

	// ListByUser lists all memberships of a user with organizations expanded
	ListByUser(userID uint64) ([]models.Membership, error)

	// ListByOrganization lists a page of the organization's memberships with
	// users expanded, plus the total member count
	ListByOrganization(organizationID uint64, params utils.PaginationParams) ([]models.Membership, int64, error)
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(invitation *models.Invitation) error

	// FindByID finds an invitation by ID
	FindByID(id uint64) (*models.Invitation, error)

	// FindByToken finds an invitation by its token
	FindByToken(token string) (*models.Invitation, error)

	// ListByTeam lists invitations issued for a team
	ListByTeam(teamID uint64) ([]models.Invitation, error)

	// Update persists invitation field changes
	Update(invitation *models.Invitation) error

	// Delete hard-deletes an invitation in any state
	Delete(id uint64) error

	// TransitionStatus moves the invitation from one status to another with
	// a guarded update. Returns ErrStatusTransition when the row was not in
	// the expected status, which loses races by design.
	TransitionStatus(id uint64, from, to models.InvitationStatus) error

	// Accept atomically marks the invitation accepted, finds or creates the
	// invited user, and creates or reuses the membership.
	Accept(invitationID uint64, user *models.User, member *models.Membership) error
}

// CatalogRepository defines the interface for feature and plan catalog data access
type CatalogRepository interface {
	// CreateFeature creates a new feature
	CreateFeature(feature *models.Feature) error

	// FindFeatureByID finds a feature by ID
	FindFeatureByID(id uint64) (*models.Feature, error)

	// FindFeatureByCode finds a feature by its unique code
	FindFeatureByCode(code string) (*models.Feature, error)

	// ListFeatures lists all features
	ListFeatures() ([]models.Feature, error)

	// FindFeaturesByIDs loads the features with the given IDs
	FindFeaturesByIDs(ids []uint64) ([]models.Feature, error)

	// UpdateFeature updates a feature
	UpdateFeature(feature *models.Feature) error

	// DeleteFeature soft-deletes a feature
	DeleteFeature(id uint64) error

	// CreatePlan creates a plan with its feature associations
	CreatePlan(plan *models.SubscriptionPlan) error

	// FindPlanByID finds a plan by ID with features expanded
	FindPlanByID(id uint64) (*models.SubscriptionPlan, error)

	// ListPlans lists all plans with features expanded
	ListPlans() ([]models.SubscriptionPlan, error)

	// UpdatePlan updates plan columns
	UpdatePlan(plan *models.SubscriptionPlan) error

	// ReplacePlanFeatures replaces the plan's feature set
	ReplacePlanFeatures(plan *models.SubscriptionPlan, features []models.Feature) error

	// DeletePlan soft-deletes a plan
	DeletePlan(id uint64) error
}

// SubscriptionRepository defines the interface for the subscription ledger
type SubscriptionRepository interface {
	// FindActive finds the organization's live (trial or active) subscription
	FindActive(organizationID uint64) (*models.Subscription, error)

	// FindActiveWithPlan is FindActive with the plan and its features expanded
	FindActiveWithPlan(organizationID uint64) (*models.Subscription, error)

	// ListByOrganization lists the full ledger, most recent first
	ListByOrganization(organizationID uint64) ([]models.Subscription, error)

	// Switch closes any live subscription of the organization and inserts
	// the new one as a single transaction
	Switch(sub *models.Subscription) error

	// CloseActive cancels the live subscription and returns the closed row
	CloseActive(organizationID uint64) (*models.Subscription, error)
}

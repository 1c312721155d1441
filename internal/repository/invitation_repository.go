package repository

import (
	"errors"
	"fmt"

	"github.com/teamforge/teamforge-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrStatusTransition is returned when a guarded status update affects no
	// rows, meaning the invitation was not in the expected status.
	ErrStatusTransition = errors.New("invitation repository: status transition rejected")
	// ErrAcceptCreateUser is returned when creating the invited user fails inside the accept transaction.
	ErrAcceptCreateUser = errors.New("invitation repository: create user failed")
	// ErrAcceptCreateMembership is returned when creating the membership fails inside the accept transaction.
	ErrAcceptCreateMembership = errors.New("invitation repository: create membership failed")
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindByID finds an invitation by ID
func (r *GormInvitationRepository) FindByID(id uint64) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.First(&invitation, id).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByToken finds an invitation by its token
func (r *GormInvitationRepository) FindByToken(token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListByTeam lists invitations issued for a team
func (r *GormInvitationRepository) ListByTeam(teamID uint64) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := r.db.Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// Update persists invitation field changes
func (r *GormInvitationRepository) Update(invitation *models.Invitation) error {
	return r.db.Save(invitation).Error
}

// Delete hard-deletes an invitation in any state
func (r *GormInvitationRepository) Delete(id uint64) error {
	return r.db.Unscoped().Delete(&models.Invitation{}, id).Error
}

// TransitionStatus moves the invitation between statuses with a guarded
// UPDATE. Concurrent transitions on the same row cannot both succeed: the
// loser matches zero rows and gets ErrStatusTransition.
func (r *GormInvitationRepository) TransitionStatus(id uint64, from, to models.InvitationStatus) error {
	res := r.db.Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusTransition
	}
	return nil
}

// Accept atomically accepts the invitation: the status flip, the user
// lookup-or-create, and the membership creation commit or roll back together.
// On return user and member point at the persisted rows, whether they were
// created here or already existed.
func (r *GormInvitationRepository) Accept(invitationID uint64, user *models.User, member *models.Membership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitationID, models.InvitationPending).
			Update("status", models.InvitationAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusTransition
		}

		var existing models.User
		err := tx.Where("email = ?", user.Email).First(&existing).Error
		switch {
		case err == nil:
			*user = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrAcceptCreateUser, err)
			}
		default:
			return err
		}

		member.UserID = user.ID

		var existingMember models.Membership
		err = tx.Where("organization_id = ? AND user_id = ?", member.OrganizationID, member.UserID).
			First(&existingMember).Error
		switch {
		case err == nil:
			*member = existingMember
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(member).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrAcceptCreateMembership, err)
			}
		default:
			return err
		}

		return nil
	})
}

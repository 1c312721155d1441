package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/teamforge/teamforge-api/internal/dto"
	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/repository"
	"github.com/teamforge/teamforge-api/internal/services"
	"github.com/teamforge/teamforge-api/internal/utils"
	"gorm.io/gorm"
)

type invitationTestEnv struct {
	db      *gorm.DB
	handler *InvitationHandler
	service *services.InvitationService
	org     *models.Organization
	team    *models.Team
}

func setupInvitationTestEnv(t *testing.T) invitationTestEnv {
	t.Helper()

	db := setupTestDB(t)

	invitationRepo := repository.NewInvitationRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	invitationService := services.NewInvitationService(invitationRepo, orgRepo)
	handler := NewInvitationHandler(invitationService)

	org := createTestOrganization(t, db, "Acme")
	team := createTestTeam(t, db, org.ID, "Platform")

	return invitationTestEnv{
		db:      db,
		handler: handler,
		service: invitationService,
		org:     org,
		team:    team,
	}
}

func createPendingInvitation(t *testing.T, env invitationTestEnv, email string, expiresAt *time.Time) *models.Invitation {
	t.Helper()

	invitation := &models.Invitation{
		OrganizationID: env.org.ID,
		TeamID:         env.team.ID,
		Email:          email,
		Role:           "member",
		Token:          utils.GenerateInvitationToken(),
		Status:         models.InvitationPending,
		ExpiresAt:      expiresAt,
	}
	require.NoError(t, env.db.Create(invitation).Error)
	return invitation
}

func TestInvitationHandler_CreateInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)

	payload := map[string]interface{}{
		"email":   "invitee@example.com",
		"team_id": env.team.ID,
		"role":    "developer",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/invitations", body, 1)

	env.handler.CreateInvitation(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.InvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "invitee@example.com", response.Email)
	require.Equal(t, env.team.ID, response.TeamID)
	require.Equal(t, env.org.ID, response.OrganizationID)
	require.Equal(t, models.InvitationPending, response.Status)
	require.NotEmpty(t, response.Token)
	require.NotNil(t, response.ExpiresAt)
	require.True(t, response.ExpiresAt.After(time.Now()))
}

func TestInvitationHandler_CreateInvitation_UnknownTeam(t *testing.T) {
	env := setupInvitationTestEnv(t)

	payload := map[string]interface{}{
		"email":   "invitee@example.com",
		"team_id": 999,
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/invitations", body, 1)

	env.handler.CreateInvitation(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvitationHandler_AcceptInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(24 * time.Hour)
	invitation := createPendingInvitation(t, env, "invitee@example.com", &expiresAt)

	payload := map[string]string{
		"first_name": "New",
		"last_name":  "User",
		"password":   "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/invitations/accept/"+invitation.Token, body, 0)
	c.Params = gin.Params{{Key: "token", Value: invitation.Token}}

	env.handler.AcceptInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AcceptedInvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.InvitationAccepted, response.Invitation.Status)
	require.Equal(t, env.org.ID, response.Membership.OrganizationID)
	require.Equal(t, "member", response.Membership.Role)

	// The invited user was created with the profile fields.
	var user models.User
	require.NoError(t, env.db.Where("email = ?", "invitee@example.com").First(&user).Error)
	require.Equal(t, "New", user.FirstName)
	require.NotEmpty(t, user.PasswordHash)

	// And the membership row exists.
	var member models.Membership
	require.NoError(t, env.db.Where("organization_id = ? AND user_id = ?", env.org.ID, user.ID).First(&member).Error)
}

func TestInvitationHandler_AcceptInvitation_SecondCallRejected(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(24 * time.Hour)
	invitation := createPendingInvitation(t, env, "invitee@example.com", &expiresAt)

	for i, wantStatus := range []int{http.StatusOK, http.StatusConflict} {
		c, w := testContext(http.MethodPost, "/api/invitations/accept/"+invitation.Token, nil, 0)
		c.Params = gin.Params{{Key: "token", Value: invitation.Token}}

		env.handler.AcceptInvitation(c)

		require.Equal(t, wantStatus, w.Code, "call %d", i+1)
	}
}

func TestInvitationHandler_AcceptInvitation_Expired(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(-time.Second)
	invitation := createPendingInvitation(t, env, "late@example.com", &expiresAt)

	c, w := testContext(http.MethodPost, "/api/invitations/accept/"+invitation.Token, nil, 0)
	c.Params = gin.Params{{Key: "token", Value: invitation.Token}}

	env.handler.AcceptInvitation(c)

	require.Equal(t, http.StatusGone, w.Code)

	// Lazy expiry persisted the terminal state.
	var reloaded models.Invitation
	require.NoError(t, env.db.First(&reloaded, invitation.ID).Error)
	require.Equal(t, models.InvitationExpired, reloaded.Status)

	// No user or membership was created.
	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "late@example.com").Count(&count).Error)
	require.Zero(t, count)
}

func TestInvitationHandler_AcceptInvitation_ExpiresAgainstServiceClock(t *testing.T) {
	env := setupInvitationTestEnv(t)

	invitation, err := env.service.CreateInvitation(services.CreateInvitationInput{
		TeamID: env.team.ID,
		Email:  "clock@example.com",
	})
	require.NoError(t, err)

	// Jump past the organization's invitation window.
	env.service.SetClock(func() time.Time {
		return time.Now().Add(49 * time.Hour)
	})

	c, w := testContext(http.MethodPost, "/api/invitations/accept/"+invitation.Token, nil, 0)
	c.Params = gin.Params{{Key: "token", Value: invitation.Token}}

	env.handler.AcceptInvitation(c)

	require.Equal(t, http.StatusGone, w.Code)
}

func TestInvitationHandler_DeclineInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(24 * time.Hour)
	invitation := createPendingInvitation(t, env, "invitee@example.com", &expiresAt)

	c, w := testContext(http.MethodPost, "/api/invitations/decline/"+invitation.Token, nil, 0)
	c.Params = gin.Params{{Key: "token", Value: invitation.Token}}

	env.handler.DeclineInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.InvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.InvitationDeclined, response.Status)

	// Declined is terminal; a later accept is rejected.
	c, w = testContext(http.MethodPost, "/api/invitations/accept/"+invitation.Token, nil, 0)
	c.Params = gin.Params{{Key: "token", Value: invitation.Token}}

	env.handler.AcceptInvitation(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestInvitationHandler_ResendInvitation_RotatesToken(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(time.Hour)
	invitation := createPendingInvitation(t, env, "invitee@example.com", &expiresAt)
	oldToken := invitation.Token

	c, w := testContext(http.MethodPost, fmt.Sprintf("/api/invitations/resend/%d", invitation.ID), nil, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", invitation.ID)}}

	env.handler.ResendInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.InvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.NotEqual(t, oldToken, response.Token)
	require.True(t, response.ExpiresAt.After(expiresAt))
}

func TestInvitationHandler_ResendInvitation_TerminalRejected(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(time.Hour)
	invitation := createPendingInvitation(t, env, "invitee@example.com", &expiresAt)

	require.NoError(t, env.db.Model(invitation).Update("status", models.InvitationCancelled).Error)

	c, w := testContext(http.MethodPost, fmt.Sprintf("/api/invitations/resend/%d", invitation.ID), nil, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", invitation.ID)}}

	env.handler.ResendInvitation(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestInvitationHandler_CancelInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(time.Hour)
	invitation := createPendingInvitation(t, env, "invitee@example.com", &expiresAt)

	c, w := testContext(http.MethodPost, fmt.Sprintf("/api/invitations/cancel/%d", invitation.ID), nil, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", invitation.ID)}}

	env.handler.CancelInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.InvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.InvitationCancelled, response.Status)
}

func TestInvitationHandler_UpdateInvitation_PendingOnly(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(time.Hour)
	invitation := createPendingInvitation(t, env, "old@example.com", &expiresAt)

	body, err := json.Marshal(map[string]string{"email": "new@example.com"})
	require.NoError(t, err)

	c, w := testContext(http.MethodPatch, fmt.Sprintf("/api/invitations/%d", invitation.ID), body, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", invitation.ID)}}

	env.handler.UpdateInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.InvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "new@example.com", response.Email)

	require.NoError(t, env.db.Model(invitation).Update("status", models.InvitationDeclined).Error)

	c, w = testContext(http.MethodPatch, fmt.Sprintf("/api/invitations/%d", invitation.ID), body, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", invitation.ID)}}

	env.handler.UpdateInvitation(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestInvitationHandler_DeleteInvitation_AnyState(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(time.Hour)
	invitation := createPendingInvitation(t, env, "invitee@example.com", &expiresAt)

	require.NoError(t, env.db.Model(invitation).Update("status", models.InvitationAccepted).Error)

	c, w := testContext(http.MethodDelete, fmt.Sprintf("/api/invitations/%d", invitation.ID), nil, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", invitation.ID)}}

	env.handler.DeleteInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Unscoped().Model(&models.Invitation{}).Where("id = ?", invitation.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestInvitationHandler_ListInvitations(t *testing.T) {
	env := setupInvitationTestEnv(t)

	expiresAt := time.Now().Add(time.Hour)
	createPendingInvitation(t, env, "a@example.com", &expiresAt)
	createPendingInvitation(t, env, "b@example.com", &expiresAt)

	c, w := testContext(http.MethodGet, fmt.Sprintf("/api/invitations?teamId=%d", env.team.ID), nil, 1)

	env.handler.ListInvitations(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]dto.InvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response["invitations"], 2)
	// Tokens never leak through listings.
	for _, inv := range response["invitations"] {
		require.Empty(t, inv.Token)
	}
}

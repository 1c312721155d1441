package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/teamforge/teamforge-api/internal/dto"
	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/repository"
	"github.com/teamforge/teamforge-api/internal/services"
	"gorm.io/gorm"
)

type subscriptionTestEnv struct {
	db      *gorm.DB
	handler *SubscriptionHandler
	org     *models.Organization
}

func setupSubscriptionTestEnv(t *testing.T) subscriptionTestEnv {
	t.Helper()

	db := setupTestDB(t)

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, orgRepo, catalogRepo)
	entitlementService := services.NewEntitlementService(subscriptionRepo)
	handler := NewSubscriptionHandler(subscriptionService, entitlementService)

	org := createTestOrganization(t, db, "Acme")

	return subscriptionTestEnv{
		db:      db,
		handler: handler,
		org:     org,
	}
}

func subscribe(t *testing.T, env subscriptionTestEnv, planID uint64, status string) dto.SubscriptionDTO {
	t.Helper()

	payload := map[string]interface{}{
		"organization_id": env.org.ID,
		"plan_id":         planID,
	}
	if status != "" {
		payload["status"] = status
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/org-subs", body, 1)

	env.handler.Subscribe(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.SubscriptionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func hasFeature(t *testing.T, env subscriptionTestEnv, featureCode string) bool {
	t.Helper()

	url := fmt.Sprintf("/api/org-subs/has-feature?orgId=%d&featureCode=%s", env.org.ID, featureCode)
	c, w := testContext(http.MethodGet, url, nil, 1)

	env.handler.HasFeature(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.HasFeatureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.HasFeature
}

func TestSubscriptionHandler_GetActive_NoSubscription(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	c, w := testContext(http.MethodGet, fmt.Sprintf("/api/org-subs/active/%d", env.org.ID), nil, 1)
	c.Params = gin.Params{{Key: "orgId", Value: fmt.Sprintf("%d", env.org.ID)}}

	env.handler.GetActive(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionHandler_Subscribe(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	chat := createTestFeature(t, env.db, "CHAT", true)
	plan := createTestPlan(t, env.db, "Pro", *chat)

	sub := subscribe(t, env, plan.ID, "")

	require.Equal(t, env.org.ID, sub.OrganizationID)
	require.Equal(t, plan.ID, sub.PlanID)
	require.Equal(t, models.SubscriptionActive, sub.Status)
	require.Nil(t, sub.EndDate)

	c, w := testContext(http.MethodGet, fmt.Sprintf("/api/org-subs/active/%d", env.org.ID), nil, 1)
	c.Params = gin.Params{{Key: "orgId", Value: fmt.Sprintf("%d", env.org.ID)}}

	env.handler.GetActive(c)

	require.Equal(t, http.StatusOK, w.Code)

	var active dto.SubscriptionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	require.Equal(t, sub.ID, active.ID)
}

func TestSubscriptionHandler_Subscribe_TrialStatus(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	plan := createTestPlan(t, env.db, "Starter")

	sub := subscribe(t, env, plan.ID, "trial")

	require.Equal(t, models.SubscriptionTrial, sub.Status)
}

func TestSubscriptionHandler_Subscribe_RejectsClosedStatus(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	plan := createTestPlan(t, env.db, "Starter")

	body, err := json.Marshal(map[string]interface{}{
		"organization_id": env.org.ID,
		"plan_id":         plan.ID,
		"status":          "canceled",
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/org-subs", body, 1)

	env.handler.Subscribe(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionHandler_Subscribe_UnknownPlan(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	body, err := json.Marshal(map[string]interface{}{
		"organization_id": env.org.ID,
		"plan_id":         999,
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/org-subs", body, 1)

	env.handler.Subscribe(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionHandler_SwitchPlan_KeepsHistory(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	starter := createTestPlan(t, env.db, "Starter")
	pro := createTestPlan(t, env.db, "Pro")

	first := subscribe(t, env, starter.ID, "")
	second := subscribe(t, env, pro.ID, "")

	c, w := testContext(http.MethodGet, fmt.Sprintf("/api/org-subs/list/%d", env.org.ID), nil, 1)
	c.Params = gin.Params{{Key: "orgId", Value: fmt.Sprintf("%d", env.org.ID)}}

	env.handler.ListHistory(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]dto.SubscriptionWithPlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	history := response["subscriptions"]
	require.Len(t, history, 2)

	// Most recent first: the live row leads, the closed one follows.
	require.Equal(t, second.ID, history[0].ID)
	require.Equal(t, models.SubscriptionActive, history[0].Status)
	require.Nil(t, history[0].EndDate)
	require.Equal(t, "Pro", history[0].Plan.Name)

	require.Equal(t, first.ID, history[1].ID)
	require.Equal(t, models.SubscriptionCanceled, history[1].Status)
	require.NotNil(t, history[1].EndDate)
	require.Equal(t, "Starter", history[1].Plan.Name)
}

func TestSubscriptionHandler_Cancel(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	plan := createTestPlan(t, env.db, "Pro")
	subscribe(t, env, plan.ID, "")

	body, err := json.Marshal(map[string]interface{}{"org_id": env.org.ID})
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/org-subs/cancel", body, 1)

	env.handler.Cancel(c)

	require.Equal(t, http.StatusOK, w.Code)

	var canceled dto.SubscriptionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &canceled))
	require.Equal(t, models.SubscriptionCanceled, canceled.Status)
	require.NotNil(t, canceled.EndDate)

	// A second cancel has nothing live to close.
	c, w = testContext(http.MethodPost, "/api/org-subs/cancel", body, 1)

	env.handler.Cancel(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionHandler_HasFeature(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	chat := createTestFeature(t, env.db, "CHAT", true)
	reports := createTestFeature(t, env.db, "REPORTS", false)
	plan := createTestPlan(t, env.db, "Pro", *chat, *reports)

	// No subscription yet.
	require.False(t, hasFeature(t, env, "CHAT"))

	subscribe(t, env, plan.ID, "")

	require.True(t, hasFeature(t, env, "CHAT"))
	// Bundled but globally switched off.
	require.False(t, hasFeature(t, env, "REPORTS"))
	// Not bundled at all.
	require.False(t, hasFeature(t, env, "EXPORT"))
}

func TestSubscriptionHandler_HasFeature_FeatureDeactivated(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	chat := createTestFeature(t, env.db, "CHAT", true)
	plan := createTestPlan(t, env.db, "Pro", *chat)
	subscribe(t, env, plan.ID, "")

	require.True(t, hasFeature(t, env, "CHAT"))

	require.NoError(t, env.db.Model(chat).Update("is_active", false).Error)

	require.False(t, hasFeature(t, env, "CHAT"))
}

func TestSubscriptionHandler_HasFeature_PlanDeactivated(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	chat := createTestFeature(t, env.db, "CHAT", true)
	plan := createTestPlan(t, env.db, "Pro", *chat)
	subscribe(t, env, plan.ID, "")

	require.NoError(t, env.db.Model(plan).Update("is_active", false).Error)

	require.False(t, hasFeature(t, env, "CHAT"))
}

func TestSubscriptionHandler_HasFeature_CanceledSubscription(t *testing.T) {
	env := setupSubscriptionTestEnv(t)

	chat := createTestFeature(t, env.db, "CHAT", true)
	plan := createTestPlan(t, env.db, "Pro", *chat)
	subscribe(t, env, plan.ID, "")

	body, err := json.Marshal(map[string]interface{}{"org_id": env.org.ID})
	require.NoError(t, err)
	c, w := testContext(http.MethodPost, "/api/org-subs/cancel", body, 1)
	env.handler.Cancel(c)
	require.Equal(t, http.StatusOK, w.Code)

	require.False(t, hasFeature(t, env, "CHAT"))
}

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

type catalogTestEnv struct {
	db      *gorm.DB
	handler *CatalogHandler
}

func setupCatalogTestEnv(t *testing.T) catalogTestEnv {
	t.Helper()

	db := setupTestDB(t)

	catalogRepo := repository.NewCatalogRepository(db)
	catalogService := services.NewCatalogService(catalogRepo)
	handler := NewCatalogHandler(catalogService)

	return catalogTestEnv{db: db, handler: handler}
}

func featureCodes(features []dto.FeatureDTO) []string {
	codes := make([]string, len(features))
	for i, f := range features {
		codes[i] = f.Code
	}
	return codes
}

func TestCatalogHandler_CreateFeature(t *testing.T) {
	env := setupCatalogTestEnv(t)

	body, err := json.Marshal(map[string]interface{}{
		"code":    "CHAT",
		"name":    "Team chat",
		"is_beta": true,
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/features", body, 1)

	env.handler.CreateFeature(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.FeatureDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "CHAT", response.Code)
	require.Equal(t, "Team chat", response.Name)
	require.True(t, response.IsActive)
	require.True(t, response.IsBeta)
}

func TestCatalogHandler_CreateFeature_DuplicateCode(t *testing.T) {
	env := setupCatalogTestEnv(t)

	createTestFeature(t, env.db, "CHAT", true)

	body, err := json.Marshal(map[string]interface{}{
		"code": "CHAT",
		"name": "Another chat",
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/features", body, 1)

	env.handler.CreateFeature(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogHandler_FeatureActivateDeactivate(t *testing.T) {
	env := setupCatalogTestEnv(t)

	feature := createTestFeature(t, env.db, "CHAT", true)

	c, w := testContext(http.MethodPost, fmt.Sprintf("/api/features/%d/deactivate", feature.ID), nil, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", feature.ID)}}

	env.handler.DeactivateFeature(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.FeatureDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.False(t, response.IsActive)

	c, w = testContext(http.MethodPost, fmt.Sprintf("/api/features/%d/activate", feature.ID), nil, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", feature.ID)}}

	env.handler.ActivateFeature(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.IsActive)
}

func TestCatalogHandler_CreatePlan_WithFeatures(t *testing.T) {
	env := setupCatalogTestEnv(t)

	chat := createTestFeature(t, env.db, "CHAT", true)
	reports := createTestFeature(t, env.db, "REPORTS", true)

	body, err := json.Marshal(map[string]interface{}{
		"name":          "Pro",
		"monthly_price": 2900,
		"annual_price":  29000,
		"seat_limit":    25,
		"usage_limits":  map[string]interface{}{"projects": 50},
		"feature_ids":   []uint64{chat.ID, reports.ID},
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/plans", body, 1)

	env.handler.CreatePlan(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "Pro", created.Name)
	require.Equal(t, int64(2900), created.MonthlyPrice)
	require.ElementsMatch(t, []string{"CHAT", "REPORTS"}, featureCodes(created.Features))

	// Reading the plan back resolves the same feature set.
	c, w = testContext(http.MethodGet, fmt.Sprintf("/api/plans/%d", created.ID), nil, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", created.ID)}}

	env.handler.GetPlan(c)

	require.Equal(t, http.StatusOK, w.Code)

	var fetched dto.PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.ElementsMatch(t, []string{"CHAT", "REPORTS"}, featureCodes(fetched.Features))
	require.Equal(t, float64(50), fetched.UsageLimits["projects"])
}

func TestCatalogHandler_CreatePlan_UnknownFeature(t *testing.T) {
	env := setupCatalogTestEnv(t)

	body, err := json.Marshal(map[string]interface{}{
		"name":        "Pro",
		"feature_ids": []uint64{999},
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/plans", body, 1)

	env.handler.CreatePlan(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_UpdatePlan_ReplacesFeatures(t *testing.T) {
	env := setupCatalogTestEnv(t)

	chat := createTestFeature(t, env.db, "CHAT", true)
	reports := createTestFeature(t, env.db, "REPORTS", true)
	export := createTestFeature(t, env.db, "EXPORT", true)
	plan := createTestPlan(t, env.db, "Pro", *chat, *reports)

	body, err := json.Marshal(map[string]interface{}{
		"name":        "Pro",
		"seat_limit":  50,
		"feature_ids": []uint64{chat.ID, export.ID},
	})
	require.NoError(t, err)

	c, w := testContext(http.MethodPut, fmt.Sprintf("/api/plans/%d", plan.ID), body, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", plan.ID)}}

	env.handler.UpdatePlan(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, 50, updated.SeatLimit)
	require.ElementsMatch(t, []string{"CHAT", "EXPORT"}, featureCodes(updated.Features))
}

func TestCatalogHandler_FeatureDeactivation_KeepsPlanMembership(t *testing.T) {
	env := setupCatalogTestEnv(t)

	chat := createTestFeature(t, env.db, "CHAT", true)
	plan := createTestPlan(t, env.db, "Pro", *chat)

	require.NoError(t, env.db.Model(chat).Update("is_active", false).Error)

	c, w := testContext(http.MethodGet, fmt.Sprintf("/api/plans/%d", plan.ID), nil, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", plan.ID)}}

	env.handler.GetPlan(c)

	require.Equal(t, http.StatusOK, w.Code)

	var fetched dto.PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Len(t, fetched.Features, 1)
	require.Equal(t, "CHAT", fetched.Features[0].Code)
	require.False(t, fetched.Features[0].IsActive)
}

func TestCatalogHandler_ListPlans(t *testing.T) {
	env := setupCatalogTestEnv(t)

	createTestPlan(t, env.db, "Starter")
	createTestPlan(t, env.db, "Pro")

	c, w := testContext(http.MethodGet, "/api/plans", nil, 1)

	env.handler.ListPlans(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]dto.PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response["plans"], 2)
}

func TestCatalogHandler_DeletePlan(t *testing.T) {
	env := setupCatalogTestEnv(t)

	plan := createTestPlan(t, env.db, "Pro")

	c, w := testContext(http.MethodDelete, fmt.Sprintf("/api/plans/%d", plan.ID), nil, 1)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", plan.ID)}}

	env.handler.DeletePlan(c)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.SubscriptionPlan{}).Where("id = ?", plan.ID).Count(&count).Error)
	require.Zero(t, count)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamforge/teamforge-api/internal/dto"
	apierrors "github.com/teamforge/teamforge-api/internal/errors"
	"github.com/teamforge/teamforge-api/internal/services"
)

// CatalogHandler coordinates feature and plan catalog HTTP handlers.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

type featureRequest struct {
	Code   string `json:"code" binding:"required"`
	Name   string `json:"name" binding:"required"`
	IsBeta bool   `json:"is_beta"`
}

// CreateFeature adds a feature to the catalog.
func (h *CatalogHandler) CreateFeature(c *gin.Context) {
	var req featureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	feature, err := h.catalogService.CreateFeature(services.FeatureInput{
		Code:   req.Code,
		Name:   req.Name,
		IsBeta: req.IsBeta,
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFeatureDTO(*feature))
}

// GetFeature returns a single feature.
func (h *CatalogHandler) GetFeature(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid feature ID")
		return
	}

	feature, err := h.catalogService.GetFeature(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeatureDTO(*feature))
}

// ListFeatures returns the feature catalog.
func (h *CatalogHandler) ListFeatures(c *gin.Context) {
	features, err := h.catalogService.ListFeatures()
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"features": dto.ToFeatureListDTO(features),
	})
}

// UpdateFeature edits a feature.
func (h *CatalogHandler) UpdateFeature(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid feature ID")
		return
	}

	var req featureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	feature, err := h.catalogService.UpdateFeature(id, services.FeatureInput{
		Code:   req.Code,
		Name:   req.Name,
		IsBeta: req.IsBeta,
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeatureDTO(*feature))
}

// ActivateFeature switches a feature on globally.
func (h *CatalogHandler) ActivateFeature(c *gin.Context) {
	h.setFeatureActive(c, true)
}

// DeactivateFeature switches a feature off globally.
func (h *CatalogHandler) DeactivateFeature(c *gin.Context) {
	h.setFeatureActive(c, false)
}

func (h *CatalogHandler) setFeatureActive(c *gin.Context, active bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid feature ID")
		return
	}

	feature, err := h.catalogService.SetFeatureActive(id, active)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeatureDTO(*feature))
}

// DeleteFeature removes a feature from the catalog.
func (h *CatalogHandler) DeleteFeature(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid feature ID")
		return
	}

	if err := h.catalogService.DeleteFeature(id); err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Feature deleted successfully",
	})
}

type planRequest struct {
	Name         string                 `json:"name" binding:"required"`
	MonthlyPrice int64                  `json:"monthly_price"`
	AnnualPrice  int64                  `json:"annual_price"`
	SeatLimit    int                    `json:"seat_limit"`
	UsageLimits  map[string]interface{} `json:"usage_limits"`
	FeatureIDs   []uint64               `json:"feature_ids"`
}

// CreatePlan adds a plan to the catalog.
func (h *CatalogHandler) CreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	plan, err := h.catalogService.CreatePlan(services.PlanInput{
		Name:         req.Name,
		MonthlyPrice: req.MonthlyPrice,
		AnnualPrice:  req.AnnualPrice,
		SeatLimit:    req.SeatLimit,
		UsageLimits:  req.UsageLimits,
		FeatureIDs:   req.FeatureIDs,
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPlanDTO(*plan))
}

// GetPlan returns a single plan with its features.
func (h *CatalogHandler) GetPlan(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid plan ID")
		return
	}

	plan, err := h.catalogService.GetPlan(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanDTO(*plan))
}

// ListPlans returns the plan catalog.
func (h *CatalogHandler) ListPlans(c *gin.Context) {
	plans, err := h.catalogService.ListPlans()
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plans": dto.ToPlanListDTO(plans),
	})
}

// UpdatePlan edits plan columns and feature set.
func (h *CatalogHandler) UpdatePlan(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid plan ID")
		return
	}

	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	plan, err := h.catalogService.UpdatePlan(id, services.PlanInput{
		Name:         req.Name,
		MonthlyPrice: req.MonthlyPrice,
		AnnualPrice:  req.AnnualPrice,
		SeatLimit:    req.SeatLimit,
		UsageLimits:  req.UsageLimits,
		FeatureIDs:   req.FeatureIDs,
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanDTO(*plan))
}

// ActivatePlan makes the plan grant entitlements again.
func (h *CatalogHandler) ActivatePlan(c *gin.Context) {
	h.setPlanActive(c, true)
}

// DeactivatePlan stops the plan from granting entitlements.
func (h *CatalogHandler) DeactivatePlan(c *gin.Context) {
	h.setPlanActive(c, false)
}

func (h *CatalogHandler) setPlanActive(c *gin.Context, active bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid plan ID")
		return
	}

	plan, err := h.catalogService.SetPlanActive(id, active)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanDTO(*plan))
}

// DeletePlan removes a plan from the catalog.
func (h *CatalogHandler) DeletePlan(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid plan ID")
		return
	}

	if err := h.catalogService.DeletePlan(id); err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Plan deleted successfully",
	})
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFeatureNotFound),
		errors.Is(err, services.ErrPlanNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFeatureCodeTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrFeatureCodeEmpty),
		errors.Is(err, services.ErrFeatureNameEmpty),
		errors.Is(err, services.ErrPlanNameEmpty),
		errors.Is(err, services.ErrPlanFeatureMissing):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

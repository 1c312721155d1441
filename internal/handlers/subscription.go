package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamforge/teamforge-api/internal/dto"
	apierrors "github.com/teamforge/teamforge-api/internal/errors"
	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/services"
)

// SubscriptionHandler coordinates subscription ledger and entitlement HTTP
// handlers.
type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
	entitlementService  *services.EntitlementService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(
	subscriptionService *services.SubscriptionService,
	entitlementService *services.EntitlementService,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		entitlementService:  entitlementService,
	}
}

// Subscribe opens or switches the organization's subscription.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	type SubscribeRequest struct {
		OrganizationID uint64 `json:"organization_id" binding:"required"`
		PlanID         uint64 `json:"plan_id" binding:"required"`
		Status         string `json:"status"`
		SeatsUsed      int    `json:"seats_used"`
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.subscriptionService.Subscribe(services.SubscribeInput{
		OrganizationID: req.OrganizationID,
		PlanID:         req.PlanID,
		Status:         models.SubscriptionStatus(req.Status),
		SeatsUsed:      req.SeatsUsed,
	})
	if err != nil {
		respondSubscriptionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubscriptionDTO(*sub))
}

// Cancel closes the organization's live subscription.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	type CancelRequest struct {
		OrganizationID uint64 `json:"org_id" binding:"required"`
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.subscriptionService.Cancel(req.OrganizationID)
	if err != nil {
		respondSubscriptionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionDTO(*sub))
}

// GetActive returns the organization's live subscription.
func (h *SubscriptionHandler) GetActive(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Param("orgId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	sub, err := h.subscriptionService.GetActive(orgID)
	if err != nil {
		respondSubscriptionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionDTO(*sub))
}

// ListHistory returns the organization's full ledger, most recent first.
func (h *SubscriptionHandler) ListHistory(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Param("orgId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	subs, err := h.subscriptionService.ListHistory(orgID)
	if err != nil {
		respondSubscriptionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": dto.ToSubscriptionHistoryDTO(subs),
	})
}

// HasFeature answers the entitlement check for feature-gated callers.
func (h *SubscriptionHandler) HasFeature(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Query("orgId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid or missing orgId")
		return
	}

	featureCode := c.Query("featureCode")
	if featureCode == "" {
		apierrors.BadRequest(c, "Missing featureCode")
		return
	}

	hasFeature, err := h.entitlementService.HasFeature(orgID, featureCode)
	if err != nil {
		respondSubscriptionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.HasFeatureResponse{HasFeature: hasFeature})
}

func respondSubscriptionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSubscriptionOrgAbsent),
		errors.Is(err, services.ErrSubscriptionPlanAbsent),
		errors.Is(err, services.ErrNoActiveSubscription):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidSubscriptionState):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

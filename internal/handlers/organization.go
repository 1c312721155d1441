package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamforge/teamforge-api/internal/dto"
	apierrors "github.com/teamforge/teamforge-api/internal/errors"
	"github.com/teamforge/teamforge-api/internal/middleware"
	"github.com/teamforge/teamforge-api/internal/models"
	"github.com/teamforge/teamforge-api/internal/services"
)

// OrganizationHandler coordinates organization and team HTTP handlers.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// CreateOrganization creates a new organization owned by the caller.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(services.CreateOrganizationInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org, true))
}

// GetOrganization returns organization details.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	// Organization is already loaded by RequireOrganizationAccess middleware
	orgInterface, _ := c.Get("organization")
	org := orgInterface.(models.Organization)

	memberInterface, _ := c.Get("organization_member")
	member := memberInterface.(models.Membership)

	c.JSON(http.StatusOK, gin.H{
		"organization": dto.ToOrganizationDTO(org, true),
		"your_role":    member.Role,
	})
}

// UpdateOrganization updates the organization's name and invitation-expiry
// setting.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	orgInterface, _ := c.Get("organization")
	org := orgInterface.(models.Organization)

	type UpdateOrgRequest struct {
		Name                  *string `json:"name"`
		InvitationExpiryHours *int    `json:"invitation_expiry_hours"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.orgService.UpdateOrganization(org.ID, services.UpdateOrganizationInput{
		Name:                  req.Name,
		InvitationExpiryHours: req.InvitationExpiryHours,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*updated, true))
}

// CreateTeam creates a team inside the organization.
func (h *OrganizationHandler) CreateTeam(c *gin.Context) {
	orgInterface, _ := c.Get("organization")
	org := orgInterface.(models.Organization)

	type CreateTeamRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.orgService.CreateTeam(services.CreateTeamInput{
		OrganizationID: org.ID,
		Name:           req.Name,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListTeams lists the organization's teams.
func (h *OrganizationHandler) ListTeams(c *gin.Context) {
	orgInterface, _ := c.Get("organization")
	org := orgInterface.(models.Organization)

	teams, err := h.orgService.ListTeams(org.ID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	items := make([]dto.TeamDTO, len(teams))
	for i, team := range teams {
		items[i] = dto.ToTeamDTO(team)
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": items,
	})
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrTeamNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidOrganizationName),
		errors.Is(err, services.ErrInvalidTeamName):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

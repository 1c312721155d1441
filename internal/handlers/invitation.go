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

// InvitationHandler coordinates invitation lifecycle HTTP handlers.
type InvitationHandler struct {
	invitationService *services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// CreateInvitation issues a new invitation for a team.
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	type CreateInvitationRequest struct {
		Email  string `json:"email" binding:"required,email"`
		TeamID uint64 `json:"team_id" binding:"required"`
		Role   string `json:"role"`
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.CreateInvitation(services.CreateInvitationInput{
		TeamID: req.TeamID,
		Email:  req.Email,
		Role:   req.Role,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation, true))
}

// ListInvitations returns the invitations of a team.
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Query("teamId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid or missing teamId")
		return
	}

	invitations, err := h.invitationService.ListInvitations(teamID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": dto.ToInvitationListDTO(invitations),
	})
}

// AcceptInvitation redeems an invitation token.
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	token := c.Param("token")

	type AcceptInvitationRequest struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"`
	}

	var req AcceptInvitationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	invitation, member, err := h.invitationService.AcceptInvitation(token, services.AcceptProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AcceptedInvitationDTO{
		Invitation: dto.ToInvitationDTO(*invitation, false),
		Membership: dto.ToMembershipDTO(*member),
	})
}

// DeclineInvitation declines a pending invitation by token.
func (h *InvitationHandler) DeclineInvitation(c *gin.Context) {
	token := c.Param("token")

	invitation, err := h.invitationService.DeclineInvitation(token)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation, false))
}

// ResendInvitation regenerates the token and deadline of a pending invitation.
func (h *InvitationHandler) ResendInvitation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid invitation ID")
		return
	}

	invitation, err := h.invitationService.ResendInvitation(id)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation, true))
}

// CancelInvitation withdraws a pending invitation.
func (h *InvitationHandler) CancelInvitation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid invitation ID")
		return
	}

	invitation, err := h.invitationService.CancelInvitation(id)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation, false))
}

// UpdateInvitation edits a pending invitation.
func (h *InvitationHandler) UpdateInvitation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid invitation ID")
		return
	}

	type UpdateInvitationRequest struct {
		Email *string `json:"email"`
		Role  *string `json:"role"`
	}

	var req UpdateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.UpdateInvitation(id, services.UpdateInvitationInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation, false))
}

// DeleteInvitation purges an invitation in any state.
func (h *InvitationHandler) DeleteInvitation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid invitation ID")
		return
	}

	if err := h.invitationService.DeleteInvitation(id); err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation deleted successfully",
	})
}

func respondInvitationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrInvitationTeamAbsent):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvitationEmailEmpty),
		errors.Is(err, services.ErrInvitationShortSecret):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvitationNotPending):
		apierrors.InvalidState(c, err.Error())
	case errors.Is(err, services.ErrInvitationExpired):
		apierrors.Gone(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

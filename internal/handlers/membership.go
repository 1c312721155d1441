package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamforge/teamforge-api/internal/dto"
	apierrors "github.com/teamforge/teamforge-api/internal/errors"
	"github.com/teamforge/teamforge-api/internal/services"
	"github.com/teamforge/teamforge-api/internal/utils"
)

// MembershipHandler coordinates user-organization registry HTTP handlers.
type MembershipHandler struct {
	membershipService *services.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
	}
}

// AddMember adds a user to an organization.
func (h *MembershipHandler) AddMember(c *gin.Context) {
	type AddMemberRequest struct {
		UserID         uint64 `json:"user_id" binding:"required"`
		OrganizationID uint64 `json:"organization_id" binding:"required"`
		Role           string `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.membershipService.AddMember(services.AddMemberInput{
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
		Role:           req.Role,
	})
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMembershipDTO(*member))
}

// RemoveMember removes a user from an organization. Removing an absent
// member succeeds.
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	type RemoveMemberRequest struct {
		UserID         uint64 `json:"user_id" binding:"required"`
		OrganizationID uint64 `json:"organization_id" binding:"required"`
	}

	var req RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.membershipService.RemoveMember(req.UserID, req.OrganizationID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// ListOrganizationsForUser returns the organizations a user belongs to.
func (h *MembershipHandler) ListOrganizationsForUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	memberships, err := h.membershipService.ListOrganizationsForUser(userID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	items := make([]dto.MembershipWithOrganizationDTO, len(memberships))
	for i, member := range memberships {
		items[i] = dto.ToMembershipWithOrganizationDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{
		"memberships": items,
	})
}

// ListUsersInOrganization returns the members of an organization.
func (h *MembershipHandler) ListUsersInOrganization(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Param("organizationId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	params := utils.GetPaginationParams(c)

	members, total, err := h.membershipService.ListUsersInOrganization(orgID, params)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	items := make([]dto.MembershipWithUserDTO, len(members))
	for i, member := range members {
		items[i] = dto.ToMembershipWithUserDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMembershipUserAbsent),
		errors.Is(err, services.ErrMembershipOrgAbsent):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMembershipExists):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

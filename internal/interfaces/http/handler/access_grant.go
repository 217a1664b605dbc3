package handler

import (
	"github.com/gin-gonic/gin"
	vaultapp "github.com/vivenda/backend/internal/application/vault"
)

// GrantHandler handles access grant API endpoints
type GrantHandler struct {
	BaseHandler
	grantService *vaultapp.GrantService
}

// NewGrantHandler creates a new GrantHandler
func NewGrantHandler(grantService *vaultapp.GrantService) *GrantHandler {
	return &GrantHandler{
		grantService: grantService,
	}
}

// Grant creates an access grant for a professional
func (h *GrantHandler) Grant(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	var req vaultapp.GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	grant, err := h.grantService.Grant(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, grant)
}

// Revoke deactivates an access grant
func (h *GrantHandler) Revoke(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	grantID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid grant ID")
		return
	}

	if err := h.grantService.Revoke(c.Request.Context(), userID, grantID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListByUser lists the active grants the caller has given
func (h *GrantHandler) ListByUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	grants, err := h.grantService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, grants)
}

// ListByProfessional lists the active grants held by the caller's professional profile
func (h *GrantHandler) ListByProfessional(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	grants, err := h.grantService.ListByProfessional(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, grants)
}

// ListByProperty lists the active grants on a property owned by the caller
func (h *GrantHandler) ListByProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	propertyID, err := parseIDParam(c, "propertyId")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	grants, err := h.grantService.ListByProperty(c.Request.Context(), userID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, grants)
}

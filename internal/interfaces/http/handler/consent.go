package handler

import (
	"github.com/gin-gonic/gin"
	vaultapp "github.com/vivenda/backend/internal/application/vault"
)

// ConsentHandler handles vault consent API endpoints
type ConsentHandler struct {
	BaseHandler
	consentService *vaultapp.ConsentService
}

// NewConsentHandler creates a new ConsentHandler
func NewConsentHandler(consentService *vaultapp.ConsentService) *ConsentHandler {
	return &ConsentHandler{
		consentService: consentService,
	}
}

// Accept records the caller's acceptance of the vault declarations for a property.
// The client IP and user agent are captured server-side for the audit trail.
func (h *ConsentHandler) Accept(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	var req vaultapp.AcceptConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	consent, err := h.consentService.Accept(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if consent.PreExisting {
		h.Success(c, consent)
		return
	}
	h.Created(c, consent)
}

// Status reports whether the caller has accepted consent for a property
func (h *ConsentHandler) Status(c *gin.Context) {
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

	status, err := h.consentService.Status(c.Request.Context(), userID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, status)
}

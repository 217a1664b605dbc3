package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	vaultapp "github.com/vivenda/backend/internal/application/vault"
)

// BuyerAccessHandler handles paid buyer vault access API endpoints
type BuyerAccessHandler struct {
	BaseHandler
	buyerAccessService *vaultapp.BuyerAccessService
}

// NewBuyerAccessHandler creates a new BuyerAccessHandler
func NewBuyerAccessHandler(buyerAccessService *vaultapp.BuyerAccessService) *BuyerAccessHandler {
	return &BuyerAccessHandler{
		buyerAccessService: buyerAccessService,
	}
}

// Request asks the property owner for vault access
func (h *BuyerAccessHandler) Request(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	var req vaultapp.RequestBuyerAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	access, err := h.buyerAccessService.Request(c.Request.Context(), buyerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, access)
}

// Approve lets the property owner approve a pending request
func (h *BuyerAccessHandler) Approve(c *gin.Context) {
	h.ownerDecision(c, h.buyerAccessService.Approve)
}

// Reject lets the property owner reject a pending request
func (h *BuyerAccessHandler) Reject(c *gin.Context) {
	h.ownerDecision(c, h.buyerAccessService.Reject)
}

func (h *BuyerAccessHandler) ownerDecision(c *gin.Context, op func(ctx context.Context, ownerID, accessID uuid.UUID) (*vaultapp.BuyerAccessResponse, error)) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	accessID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid access ID")
		return
	}

	access, err := op(c.Request.Context(), ownerID, accessID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, access)
}

// StartCheckout creates a payment checkout session for an approved request
func (h *BuyerAccessHandler) StartCheckout(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	accessID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid access ID")
		return
	}

	checkout, err := h.buyerAccessService.StartCheckout(c.Request.Context(), buyerID, accessID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, checkout)
}

// GetMine returns the caller's latest access record for a property
func (h *BuyerAccessHandler) GetMine(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	propertyID, err := uuid.Parse(c.Query("property_id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	access, err := h.buyerAccessService.GetForBuyer(c.Request.Context(), buyerID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, access)
}

// ListByProperty lists access records for a property owned by the caller
func (h *BuyerAccessHandler) ListByProperty(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	propertyID, err := parseIDParam(c, "propertyId")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	accesses, err := h.buyerAccessService.ListByProperty(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, accesses)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	vaultapp "github.com/vivenda/backend/internal/application/vault"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/interfaces/http/dto"
)

// DocumentHandler handles vault document API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *vaultapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *vaultapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// documentListQuery carries document list filters from the query string
type documentListQuery struct {
	dto.ListRequest
	Status      string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	IsPublic    *bool  `form:"is_public"`
	ContentType string `form:"content_type"`
}

// toFilter converts the query into a repository filter
func (q documentListQuery) toFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}
	filter.Search = q.Search
	if q.Status != "" {
		filter.Filters["status"] = q.Status
	}
	if q.IsPublic != nil {
		filter.Filters["is_public"] = *q.IsPublic
	}
	if q.ContentType != "" {
		filter.Filters["content_type"] = q.ContentType
	}
	return filter
}

// Upload registers a document and returns a presigned upload URL
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	var req vaultapp.UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.documentService.Upload(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a document visible to the caller
func (h *DocumentHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	docID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), userID, docID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// DownloadURL issues a short-lived download URL for a document
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	docID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	resp, err := h.documentService.DownloadURL(c.Request.Context(), userID, docID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListOwn lists the caller's own documents
func (h *DocumentHandler) ListOwn(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	var query documentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	docs, err := h.documentService.ListOwn(c.Request.Context(), userID, query.toFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, docs)
}

// ListByProperty lists the documents of a property the caller may see
func (h *DocumentHandler) ListByProperty(c *gin.Context) {
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

	var query documentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	docs, err := h.documentService.ListByProperty(c.Request.Context(), userID, propertyID, query.toFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, docs)
}

// Update changes a document's name or visibility
func (h *DocumentHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	docID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req vaultapp.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documentService.Update(c.Request.Context(), userID, docID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// Approve marks a document as reviewed and approved
func (h *DocumentHandler) Approve(c *gin.Context) {
	h.review(c, h.documentService.Approve)
}

// Reject marks a document as reviewed and rejected
func (h *DocumentHandler) Reject(c *gin.Context) {
	h.review(c, h.documentService.Reject)
}

func (h *DocumentHandler) review(c *gin.Context, op func(ctx context.Context, userID, docID uuid.UUID) (*vaultapp.DocumentResponse, error)) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	docID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := op(c.Request.Context(), userID, docID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// Delete removes a document and its stored file
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	docID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), userID, docID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

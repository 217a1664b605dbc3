package router

import (
	"github.com/vivenda/backend/internal/interfaces/http/handler"
)

// Handlers bundles the handlers the API exposes
type Handlers struct {
	System        *handler.SystemHandler
	Document      *handler.DocumentHandler
	Grant         *handler.GrantHandler
	BuyerAccess   *handler.BuyerAccessHandler
	Consent       *handler.ConsentHandler
	Notification  *handler.NotificationHandler
	SSE           *handler.NotificationSSEHandler
	StripeWebhook *handler.StripeWebhookHandler
}

// BuildRoutes wires all handlers into domain route groups
func BuildRoutes(h Handlers) []RouteRegistrar {
	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	vault := NewDomainGroup("vault", "/vault")

	vault.Group("documents", "/documents").
		POST("", h.Document.Upload).
		GET("", h.Document.ListOwn).
		GET("/:id", h.Document.GetByID).
		GET("/:id/download", h.Document.DownloadURL).
		PATCH("/:id", h.Document.Update).
		POST("/:id/approve", h.Document.Approve).
		POST("/:id/reject", h.Document.Reject).
		DELETE("/:id", h.Document.Delete)

	vault.Group("grants", "/grants").
		POST("", h.Grant.Grant).
		GET("", h.Grant.ListByUser).
		GET("/professional", h.Grant.ListByProfessional).
		DELETE("/:id", h.Grant.Revoke)

	vault.Group("buyer-access", "/buyer-access").
		POST("", h.BuyerAccess.Request).
		GET("/mine", h.BuyerAccess.GetMine).
		POST("/:id/approve", h.BuyerAccess.Approve).
		POST("/:id/reject", h.BuyerAccess.Reject).
		POST("/:id/checkout", h.BuyerAccess.StartCheckout)

	vault.Group("consent", "/consent").
		POST("", h.Consent.Accept).
		GET("/:propertyId/status", h.Consent.Status)

	// Property-scoped views of the vault
	vault.Group("properties", "/properties").
		GET("/:propertyId/documents", h.Document.ListByProperty).
		GET("/:propertyId/grants", h.Grant.ListByProperty).
		GET("/:propertyId/buyer-access", h.BuyerAccess.ListByProperty)

	notifications := NewDomainGroup("notifications", "/notifications").
		GET("", h.Notification.List).
		GET("/unread-count", h.Notification.UnreadCount).
		GET("/stream", h.SSE.Stream).
		POST("/:id/read", h.Notification.MarkRead).
		POST("/read-all", h.Notification.MarkAllRead).
		DELETE("/:id", h.Notification.Delete)

	webhooks := NewDomainGroup("webhooks", "/webhooks").
		POST("/stripe", h.StripeWebhook.HandleStripeWebhook)

	return []RouteRegistrar{system, vault, notifications, webhooks}
}

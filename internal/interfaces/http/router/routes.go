package router

import (
	"github.com/gin-gonic/gin"
	"github.com/siesson1991/adtracking-saas/internal/interfaces/http/handler"
)

// WebhookPath is the unauthenticated marketplace delivery endpoint
const WebhookPath = "/webhooks/:marketplace/:storeId"

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Webhook *handler.WebhookHandler
	Event   *handler.EventHandler
	Usage   *handler.UsageHandler
	Store   *handler.StoreHandler
	System  *handler.SystemHandler
}

// RegisterPublic mounts the routes that sit outside the versioned API:
// health and marketplace webhooks
func RegisterPublic(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)
	engine.POST(WebhookPath, h.Webhook.Receive)
}

// Domains returns the authenticated API route groups
func Domains(h Handlers) []*DomainGroup {
	events := NewDomainGroup("events", "/events").
		POST("/track", h.Event.Track)

	usage := NewDomainGroup("usage", "/usage").
		GET("/current", h.Usage.GetCurrent).
		GET("/history", h.Usage.GetHistory)

	stores := NewDomainGroup("stores", "/stores").
		POST("", h.Store.Create).
		GET("", h.Store.List).
		GET("/:id", h.Store.Get).
		PATCH("/:id/status", h.Store.UpdateStatus).
		DELETE("/:id", h.Store.Delete).
		GET("/:id/webhooks", h.Store.ListDeliveries)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{events, usage, stores, system}
}

package integration

import (
	"github.com/nateesoft/management-hrm-service/internal/identity"
	"github.com/nateesoft/management-hrm-service/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	provider identity.Provider,
	enforcer *casbin.Enforcer,
) {
	integration := r.Group("/integration")

	// Webhooks are called service-to-service by the food-ordering backend
	// and carry no user token.
	integration.POST("/webhook/user-created", h.UserCreatedWebhook)
	integration.POST("/webhook/user-updated", h.UserUpdatedWebhook)

	guarded := integration.Group("")
	guarded.Use(middleware.AuthMiddleware(provider))
	{
		guarded.POST("/sync-users", middleware.RBACAuthorize(enforcer, "integration", "sync"), h.SyncUsers)
		guarded.GET("/unlinked-users", middleware.RBACAuthorize(enforcer, "integration", "read"), h.UnlinkedUsers)
	}
}

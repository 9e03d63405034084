package position

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
	positions := r.Group("/positions")

	positions.GET("", h.GetAll)
	positions.GET("/:id", h.GetByID)

	guarded := positions.Group("")
	guarded.Use(middleware.AuthMiddleware(provider))
	{
		guarded.POST("", middleware.RBACAuthorize(enforcer, "position", "create"), h.Create)
		guarded.PATCH("/:id", middleware.RBACAuthorize(enforcer, "position", "update"), h.Update)
		guarded.DELETE("/:id", middleware.RBACAuthorize(enforcer, "position", "delete"), h.Delete)
	}
}

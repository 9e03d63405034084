package department

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
	departments := r.Group("/departments")

	// Reads are public, mirroring the upstream API contract.
	departments.GET("", h.GetAll)
	departments.GET("/:id", h.GetByID)

	guarded := departments.Group("")
	guarded.Use(middleware.AuthMiddleware(provider))
	{
		guarded.POST("", middleware.RBACAuthorize(enforcer, "department", "create"), h.Create)
		guarded.PATCH("/:id", middleware.RBACAuthorize(enforcer, "department", "update"), h.Update)
		guarded.DELETE("/:id", middleware.RBACAuthorize(enforcer, "department", "delete"), h.Delete)
	}
}

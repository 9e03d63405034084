package employee

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
	employees := r.Group("/employees")

	// Create and code generation stay public, mirroring the upstream API
	// contract (onboarding flows call them before any staff account exists).
	employees.POST("", h.Create)
	employees.GET("/generate-code", h.GenerateCode)

	guarded := employees.Group("")
	guarded.Use(middleware.AuthMiddleware(provider))
	{
		guarded.GET("", middleware.RBACAuthorize(enforcer, "employee", "read"), h.GetAll)
		guarded.GET("/:id", middleware.RBACAuthorize(enforcer, "employee", "read"), h.GetByID)
		guarded.GET("/:id/salary-history", middleware.RBACAuthorize(enforcer, "employee", "read"), h.SalaryHistory)
		guarded.GET("/:id/benefits", middleware.RBACAuthorize(enforcer, "employee", "read"), h.Benefits)
		guarded.PATCH("/:id", middleware.RBACAuthorize(enforcer, "employee", "update"), h.Update)
		guarded.DELETE("/:id", middleware.RBACAuthorize(enforcer, "employee", "delete"), h.Terminate)
		guarded.POST("/:id/link-user", middleware.RBACAuthorize(enforcer, "employee", "update"), h.LinkUser)
		guarded.POST("/:id/unlink-user", middleware.RBACAuthorize(enforcer, "employee", "update"), h.UnlinkUser)
	}
}

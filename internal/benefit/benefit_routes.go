package benefit

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
	benefits := r.Group("/benefits")

	benefits.GET("", h.GetAllBenefits)
	benefits.GET("/summary", h.Summary)
	benefits.GET("/employee-benefits", h.GetAssignments)
	benefits.GET("/employee-benefits/:id", h.GetAssignmentByID)
	benefits.GET("/:id", h.GetBenefitByID)

	guarded := benefits.Group("")
	guarded.Use(middleware.AuthMiddleware(provider))
	{
		guarded.POST("", middleware.RBACAuthorize(enforcer, "benefit", "create"), h.CreateBenefit)
		guarded.PATCH("/:id", middleware.RBACAuthorize(enforcer, "benefit", "update"), h.UpdateBenefit)
		guarded.DELETE("/:id", middleware.RBACAuthorize(enforcer, "benefit", "delete"), h.DeleteBenefit)

		guarded.POST("/employee-benefits", middleware.RBACAuthorize(enforcer, "benefit", "create"), h.Assign)
		guarded.PATCH("/employee-benefits/:id", middleware.RBACAuthorize(enforcer, "benefit", "update"), h.UpdateAssignment)
		guarded.DELETE("/employee-benefits/:id", middleware.RBACAuthorize(enforcer, "benefit", "delete"), h.Deactivate)
	}
}

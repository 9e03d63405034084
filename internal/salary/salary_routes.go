package salary

import (
	"github.com/nateesoft/management-hrm-service/internal/identity"
	"github.com/nateesoft/management-hrm-service/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	provider identity.Provider,
	enforcer *casbin.Enforcer,
	rdb *redis.Client,
) {
	salary := r.Group("/salary")

	// List, reads, create, generate and pay are public, mirroring the
	// upstream API contract. Generate additionally carries idempotency-key
	// replay protection and a per-IP rate cap since it fans out writes.
	salary.GET("", h.GetAll)
	salary.GET("/summary", h.Summary)
	salary.GET("/by-month/:year/:month", h.ByMonth)
	salary.GET("/:id", h.GetByID)
	salary.POST("", h.Create)
	salary.POST("/generate",
		middleware.RateLimitByIP(rate.Limit(1), 3),
		middleware.Idempotency(rdb),
		h.Generate,
	)
	salary.PATCH("/:id/pay", h.MarkAsPaid)

	guarded := salary.Group("")
	guarded.Use(middleware.AuthMiddleware(provider))
	{
		guarded.PATCH("/:id", middleware.RBACAuthorize(enforcer, "salary", "update"), h.Update)
		guarded.PATCH("/:id/approve", middleware.RBACAuthorize(enforcer, "salary", "approve"), h.Approve)
		guarded.PATCH("/:id/cancel", middleware.RBACAuthorize(enforcer, "salary", "cancel"), h.Cancel)
		guarded.DELETE("/:id", middleware.RBACAuthorize(enforcer, "salary", "delete"), h.Delete)
	}
}

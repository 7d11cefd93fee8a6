package vehicle

import (
	"go-dms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.AuthMiddleware())
	{
		vehicles.GET("", middleware.RBACAuthorize(rbacService, "vehicle", "read"), handler.GetAll)
		vehicles.GET("/:id", middleware.RBACAuthorize(rbacService, "vehicle", "read"), handler.GetByID)
		vehicles.POST("", middleware.RBACAuthorize(rbacService, "vehicle", "create"), handler.Create)
		vehicles.PUT("/:id", middleware.RBACAuthorize(rbacService, "vehicle", "update"), handler.Update)
		vehicles.POST("/:id/sell", middleware.RBACAuthorize(rbacService, "vehicle", "sell"), handler.Sell)
		vehicles.DELETE("/:id", middleware.RBACAuthorize(rbacService, "vehicle", "delete"), handler.Delete)
	}
}

package adjustment

import (
	"go-dms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	adjustments := r.Group("/adjustments")
	adjustments.Use(middleware.AuthMiddleware())
	{
		adjustments.GET("", middleware.RBACAuthorize(rbacService, "adjustment", "read"), handler.GetAll)
		adjustments.GET("/visit-types", middleware.RBACAuthorize(rbacService, "adjustment", "read"), handler.VisitTypes)
		adjustments.GET("/reconciliation/:period", middleware.RBACAuthorize(rbacService, "adjustment", "read"), handler.Reconcile)
		adjustments.GET("/reconciliation/:period/vehicles", middleware.RBACAuthorize(rbacService, "adjustment", "read"), handler.ReconcileVehicles)
		adjustments.POST("", middleware.RBACAuthorize(rbacService, "adjustment", "create"), handler.Create)
		adjustments.DELETE("/:id", middleware.RBACAuthorize(rbacService, "adjustment", "delete"), handler.Delete)
	}
}

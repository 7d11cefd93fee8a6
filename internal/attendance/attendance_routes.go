package attendance

import (
	"go-dms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetAll)
		attendances.POST("/check-in", handler.CheckIn)
		attendances.POST("/check-out", handler.CheckOut)
		attendances.POST("/break/start", handler.StartBreak)
		attendances.POST("/break/end", handler.EndBreak)
		attendances.POST("", middleware.RBACAuthorize(rbacService, "attendance", "create"), handler.CreateManual)
		attendances.PATCH("/:id", middleware.RBACAuthorize(rbacService, "attendance", "update"), handler.Correct)
	}
}

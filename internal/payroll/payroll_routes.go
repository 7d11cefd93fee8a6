package payroll

import (
	"go-dms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByID)
		payrolls.POST("/generate",
			middleware.RBACAuthorize(rbacService, "payroll", "create"),
			middleware.Idempotency(rdb),
			handler.Generate,
		)
		payrolls.POST("/:id/process", middleware.RBACAuthorize(rbacService, "payroll", "update"), handler.MarkProcessed)
		payrolls.POST("/:id/pay", middleware.RBACAuthorize(rbacService, "payroll", "update"), handler.MarkPaid)
		payrolls.POST("/:id/reverse", middleware.RBACAuthorize(rbacService, "payroll", "update"), handler.ReversePayment)
		payrolls.POST("/:id/payslip", middleware.RBACAuthorize(rbacService, "payroll", "update"), handler.GeneratePayslip)
	}
}

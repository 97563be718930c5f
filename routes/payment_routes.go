package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RimshaArfeen/diro/controllers"
	"github.com/RimshaArfeen/diro/middleware"
	"github.com/RimshaArfeen/diro/models"
	"github.com/RimshaArfeen/diro/repositories"
	"github.com/RimshaArfeen/diro/services"
)

// RegisterPaymentRoutes sets up deposits, payouts and the status
// machine. Only admins drive status transitions and open payouts.
func RegisterPaymentRoutes(e *echo.Echo, db *mongo.Client, wallets *repositories.WalletRepository, gateway *services.GatewayService) {
	paymentController := controllers.NewPaymentController(db, wallets, gateway)

	payments := e.Group("/api/payments", middleware.JWTMiddleware())
	payments.GET("", paymentController.List)
	payments.GET("/audit", paymentController.Audit, middleware.RequireRole(models.RoleAdmin))
	payments.GET("/:paymentId", paymentController.Get)

	payments.POST("/deposit", paymentController.CreateDeposit,
		middleware.RequireRole(models.RoleBrand, models.RoleAdmin))
	payments.POST("/payout", paymentController.CreatePayout,
		middleware.RequireRole(models.RoleAdmin))
	payments.PATCH("/:paymentId/status", paymentController.UpdateStatus,
		middleware.RequireRole(models.RoleAdmin))
}

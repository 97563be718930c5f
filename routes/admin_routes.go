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

// RegisterAdminRoutes sets up platform settings, dashboard, user
// administration and the settlement run. Everything here is admin-only.
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, settings *services.SettingsService, wallets *repositories.WalletRepository) {
	adminController := controllers.NewAdminController(db, settings, wallets)

	admin := e.Group("/api/admin", middleware.JWTMiddleware(), middleware.RequireRole(models.RoleAdmin))
	admin.GET("/settings", adminController.GetSettings)
	admin.PUT("/settings", adminController.UpdateSettings)
	admin.GET("/dashboard", adminController.Dashboard)

	admin.GET("/users", adminController.ListUsers)
	admin.PATCH("/users/:userId/permissions", adminController.UpdateUserPermissions)
	admin.PATCH("/users/:userId/status", adminController.UpdateUserStatus)

	admin.POST("/settlements/run", adminController.RunSettlement)
}

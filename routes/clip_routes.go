package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RimshaArfeen/diro/controllers"
	"github.com/RimshaArfeen/diro/middleware"
	"github.com/RimshaArfeen/diro/models"
	"github.com/RimshaArfeen/diro/repositories"
)

// RegisterClipRoutes sets up clip submission, moderation and view
// reporting
func RegisterClipRoutes(e *echo.Echo, db *mongo.Client, wallets *repositories.WalletRepository) {
	clipController := controllers.NewClipController(db, wallets)

	clips := e.Group("/api/clips", middleware.JWTMiddleware())
	clips.POST("", clipController.Submit, middleware.RequireRole(models.RoleCreator))
	clips.GET("", clipController.List)
	clips.GET("/:clipId", clipController.Get)

	clips.PATCH("/:clipId/status", clipController.UpdateStatus, middleware.RequireRole(models.RoleAdmin))
	clips.PATCH("/:clipId/views", clipController.UpdateViews, middleware.RequireRole(models.RoleAdmin))
}

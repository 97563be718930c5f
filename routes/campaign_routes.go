package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RimshaArfeen/diro/controllers"
	"github.com/RimshaArfeen/diro/middleware"
	"github.com/RimshaArfeen/diro/models"
	"github.com/RimshaArfeen/diro/services"
)

// RegisterCampaignRoutes sets up the campaign lifecycle routes.
// Listing and reads take an optional token so anonymous visitors see
// live campaigns only.
func RegisterCampaignRoutes(e *echo.Echo, db *mongo.Client, settings *services.SettingsService) {
	campaignController := controllers.NewCampaignController(db, settings)

	campaigns := e.Group("/api/campaigns")
	campaigns.GET("", campaignController.List, middleware.OptionalJWTMiddleware())
	campaigns.GET("/:campaignId", campaignController.Get, middleware.OptionalJWTMiddleware())

	campaigns.POST("", campaignController.Create,
		middleware.JWTMiddleware(), middleware.RequireRole(models.RoleBrand, models.RoleAdmin))
	campaigns.PUT("/:campaignId", campaignController.Update,
		middleware.JWTMiddleware(), middleware.RequireRole(models.RoleBrand, models.RoleAdmin))
	campaigns.DELETE("/:campaignId", campaignController.Delete,
		middleware.JWTMiddleware(), middleware.RequireRole(models.RoleAdmin))
	campaigns.GET("/:campaignId/analytics", campaignController.Analytics,
		middleware.JWTMiddleware(), middleware.RequireRole(models.RoleBrand, models.RoleAdmin))

	campaigns.PATCH("/:campaignId/status", campaignController.UpdateStatus,
		middleware.JWTMiddleware(), middleware.RequireRole(models.RoleAdmin))
}

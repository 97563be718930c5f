package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RimshaArfeen/diro/controllers"
	"github.com/RimshaArfeen/diro/middleware"
)

// RegisterAuthRoutes sets up signup, login and token validation
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)

	auth := e.Group("/api/auth")
	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)
	auth.POST("/google", authController.GoogleAuth)
	auth.GET("/validate", authController.Validate, middleware.JWTMiddleware())
}

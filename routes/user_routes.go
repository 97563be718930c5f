package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RimshaArfeen/diro/controllers"
	"github.com/RimshaArfeen/diro/middleware"
)

// RegisterUserRoutes sets up the authenticated user's own profile and
// wallet routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client) {
	userController := controllers.NewUserController(db)

	users := e.Group("/api/users", middleware.JWTMiddleware())
	users.GET("/me", userController.GetProfile)
	users.GET("/me/wallet", userController.GetWallet)
	users.PUT("/me", userController.UpdateProfile)
	users.PUT("/me/password", userController.ChangePassword)
}

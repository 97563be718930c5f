package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RimshaArfeen/diro/config"
	"github.com/RimshaArfeen/diro/middleware"
	"github.com/RimshaArfeen/diro/models"
	"github.com/RimshaArfeen/diro/utils"
)

// UserController serves the authenticated user's own profile and wallet
type UserController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client) *UserController {
	return &UserController{
		DB:     db,
		logger: log.New(os.Stdout, "[USER] ", log.LstdFlags),
	}
}

func (uc *UserController) findSelf(ctx context.Context, c echo.Context) (*models.User, error) {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return nil, utils.AuthenticationError("")
	}

	var user models.User
	err := config.GetCollection(uc.DB, "users").FindOne(ctx, bson.M{"userId": claims.UserID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFoundError("User")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile returns the authenticated user's account.
func (uc *UserController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := uc.findSelf(ctx, c)
	if err != nil {
		return utils.RespondError(c, uc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// GetWallet returns the caller's three wallet balances.
func (uc *UserController) GetWallet(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := uc.findSelf(ctx, c)
	if err != nil {
		return utils.RespondError(c, uc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Wallet retrieved successfully",
		Data:    user.Wallet,
	})
}

// UpdateProfile applies a partial update to name and social accounts.
func (uc *UserController) UpdateProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, uc.logger, utils.AuthenticationError(""))
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, uc.logger, utils.ValidationError("Invalid request body"))
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = utils.SanitizeInput(req.Name)
	}
	if req.SocialAccounts != nil {
		set["socialAccounts"] = models.SocialAccounts{
			Instagram: utils.SanitizeInput(req.SocialAccounts.Instagram),
			TikTok:    utils.SanitizeInput(req.SocialAccounts.TikTok),
			YouTube:   utils.SanitizeInput(req.SocialAccounts.YouTube),
		}
	}

	result := config.GetCollection(uc.DB, "users").FindOneAndUpdate(ctx,
		bson.M{"userId": claims.UserID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var user models.User
	if err := result.Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.RespondError(c, uc.logger, utils.NotFoundError("User"))
		}
		return utils.RespondError(c, uc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
		Data:    user,
	})
}

// ChangePassword verifies the current password and stores a new hash.
// Only local accounts carry a password.
func (uc *UserController) ChangePassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, uc.logger, utils.ValidationError("Invalid request body"))
	}
	if len(req.NewPassword) < 8 {
		return utils.RespondError(c, uc.logger, utils.ValidationError("New password must be at least 8 characters"))
	}

	user, err := uc.findSelf(ctx, c)
	if err != nil {
		return utils.RespondError(c, uc.logger, err)
	}

	if user.Credential.Kind != models.CredentialLocal {
		return utils.RespondError(c, uc.logger, utils.ValidationError("Federated accounts do not have a password"))
	}
	if utils.CheckPassword(req.CurrentPassword, user.Credential.PasswordHash) != nil {
		return utils.RespondError(c, uc.logger, utils.AuthenticationError("Current password is incorrect"))
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return utils.RespondError(c, uc.logger, err)
	}

	_, err = config.GetCollection(uc.DB, "users").UpdateOne(ctx,
		bson.M{"userId": user.UserID},
		bson.M{"$set": bson.M{"credential.passwordHash": hash, "updatedAt": time.Now()}})
	if err != nil {
		return utils.RespondError(c, uc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password changed successfully",
	})
}

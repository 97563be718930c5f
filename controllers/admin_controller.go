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
	"github.com/RimshaArfeen/diro/models"
	"github.com/RimshaArfeen/diro/repositories"
	"github.com/RimshaArfeen/diro/services"
	"github.com/RimshaArfeen/diro/utils"
)

// AdminController serves platform settings, the dashboard and user
// administration.
type AdminController struct {
	DB       *mongo.Client
	settings *services.SettingsService
	wallets  *repositories.WalletRepository
	logger   *log.Logger
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client, settings *services.SettingsService, wallets *repositories.WalletRepository) *AdminController {
	return &AdminController{
		DB:       db,
		settings: settings,
		wallets:  wallets,
		logger:   log.New(os.Stdout, "[ADMIN] ", log.LstdFlags),
	}
}

// GetSettings returns the platform settings, creating defaults on
// first read.
func (ac *AdminController) GetSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	settings, err := ac.settings.Get(ctx)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings retrieved successfully",
		Data:    settings,
	})
}

// UpdateSettings applies a partial update to the platform settings.
func (ac *AdminController) UpdateSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, ac.logger, utils.ValidationError("Invalid request body"))
	}

	settings, err := ac.settings.Update(ctx, req)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings updated successfully",
		Data:    settings,
	})
}

// Dashboard aggregates platform-wide counters and completed money
// flow. Platform revenue is deposits in minus payouts out.
func (ac *AdminController) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	users := config.GetCollection(ac.DB, "users")
	campaigns := config.GetCollection(ac.DB, "campaigns")
	clips := config.GetCollection(ac.DB, "clips")
	payments := config.GetCollection(ac.DB, "payments")

	totalCreators, err := users.CountDocuments(ctx, bson.M{"role": models.RoleCreator})
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}
	totalBrands, err := users.CountDocuments(ctx, bson.M{"role": models.RoleBrand})
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}
	totalCampaigns, err := campaigns.CountDocuments(ctx, bson.M{})
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}
	liveCampaigns, err := campaigns.CountDocuments(ctx, bson.M{"status": models.CampaignLive})
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}
	totalClips, err := clips.CountDocuments(ctx, bson.M{})
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}
	pendingClips, err := clips.CountDocuments(ctx, bson.M{"status": models.ClipPending})
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	completedTotal := func(paymentType string) (float64, error) {
		pipeline := []bson.M{
			{"$match": bson.M{"type": paymentType, "status": models.PaymentCompleted}},
			{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
		}
		cursor, err := payments.Aggregate(ctx, pipeline)
		if err != nil {
			return 0, err
		}
		defer cursor.Close(ctx)

		var row struct {
			Total float64 `bson:"total"`
		}
		if cursor.Next(ctx) {
			if err := cursor.Decode(&row); err != nil {
				return 0, err
			}
		}
		return row.Total, nil
	}

	totalDeposits, err := completedTotal(models.PaymentDeposit)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}
	totalPayouts, err := completedTotal(models.PaymentPayout)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	settings, err := ac.settings.Get(ctx)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard retrieved successfully",
		Data: map[string]interface{}{
			"users": map[string]interface{}{
				"creators": totalCreators,
				"brands":   totalBrands,
			},
			"campaigns": map[string]interface{}{
				"total": totalCampaigns,
				"live":  liveCampaigns,
			},
			"clips": map[string]interface{}{
				"total":   totalClips,
				"pending": pendingClips,
			},
			"finance": map[string]interface{}{
				"totalDeposits":        totalDeposits,
				"totalPayouts":         totalPayouts,
				"platformRevenue":      totalDeposits - totalPayouts,
				"commissionPercentage": settings.PlatformCommissionPercentage,
			},
		},
	})
}

// ListUsers returns users filtered by role and active state.
func (ac *AdminController) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if role := c.QueryParam("role"); role != "" {
		filter["role"] = role
	}
	if active := c.QueryParam("isActive"); active == "true" || active == "false" {
		filter["isActive"] = active == "true"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"credential.passwordHash": 0})
	cursor, err := config.GetCollection(ac.DB, "users").Find(ctx, filter, opts)
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// UpdateUserPermissions toggles a brand's permission to create
// campaigns.
func (ac *AdminController) UpdateUserPermissions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req struct {
		CanCreateCampaign bool `json:"canCreateCampaign"`
	}
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, ac.logger, utils.ValidationError("Invalid request body"))
	}

	result := config.GetCollection(ac.DB, "users").FindOneAndUpdate(ctx,
		bson.M{"userId": c.Param("userId"), "role": models.RoleBrand},
		bson.M{"$set": bson.M{"canCreateCampaign": req.CanCreateCampaign, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"credential.passwordHash": 0}))

	var user models.User
	if err := result.Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.RespondError(c, ac.logger, utils.NotFoundError("Brand"))
		}
		return utils.RespondError(c, ac.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User permissions updated successfully",
		Data:    user,
	})
}

// UpdateUserStatus activates or deactivates an account. Deactivated
// users cannot log in but their records and balances remain.
func (ac *AdminController) UpdateUserStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, ac.logger, utils.ValidationError("Invalid request body"))
	}

	result := config.GetCollection(ac.DB, "users").FindOneAndUpdate(ctx,
		bson.M{"userId": c.Param("userId")},
		bson.M{"$set": bson.M{"isActive": req.IsActive, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"credential.passwordHash": 0}))

	var user models.User
	if err := result.Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.RespondError(c, ac.logger, utils.NotFoundError("User"))
		}
		return utils.RespondError(c, ac.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User status updated successfully",
		Data:    user,
	})
}

// RunSettlement moves accrued clip earnings from pending to
// withdrawable balances. Each clip settles at most once: the settledAt
// marker is claimed with a conditional write before the wallet moves,
// so a concurrent run skips clips another run already claimed.
func (ac *AdminController) RunSettlement(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	clips := config.GetCollection(ac.DB, "clips")

	cursor, err := clips.Find(ctx, bson.M{
		"status":    models.ClipApproved,
		"accruedAt": bson.M{"$ne": nil},
		"settledAt": nil,
	})
	if err != nil {
		return utils.RespondError(c, ac.logger, err)
	}
	defer cursor.Close(ctx)

	var eligible []models.Clip
	if err := cursor.All(ctx, &eligible); err != nil {
		return utils.RespondError(c, ac.logger, err)
	}

	settled := 0
	skipped := 0
	var totalMoved float64
	now := time.Now()

	for _, clip := range eligible {
		if clip.AccruedAmount <= 0 {
			skipped++
			continue
		}

		claim, err := clips.UpdateOne(ctx,
			bson.M{"clipId": clip.ClipID, "settledAt": nil},
			bson.M{"$set": bson.M{"settledAt": now, "updatedAt": now}})
		if err != nil {
			return utils.RespondError(c, ac.logger, err)
		}
		if claim.MatchedCount == 0 {
			skipped++
			continue
		}

		ok, err := ac.wallets.Settle(ctx, clip.CreatorID, clip.AccruedAmount)
		if err != nil {
			return utils.RespondError(c, ac.logger, err)
		}
		if !ok {
			// Pending balance short of the accrual; release the claim
			// so the next run retries this clip.
			ac.logger.Printf("settlement skipped clip %s: pending balance below %.2f", clip.ClipID, clip.AccruedAmount)
			if _, err := clips.UpdateOne(ctx,
				bson.M{"clipId": clip.ClipID},
				bson.M{"$set": bson.M{"settledAt": nil}}); err != nil {
				return utils.RespondError(c, ac.logger, err)
			}
			skipped++
			continue
		}

		settled++
		totalMoved += clip.AccruedAmount
	}

	ac.logger.Printf("settlement run complete: %d clips settled, %d skipped, %.2f moved", settled, skipped, totalMoved)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settlement run completed",
		Data: map[string]interface{}{
			"clipsSettled": settled,
			"clipsSkipped": skipped,
			"totalMoved":   totalMoved,
			"ranAt":        now,
		},
	})
}

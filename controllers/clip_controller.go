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
	"github.com/RimshaArfeen/diro/repositories"
	"github.com/RimshaArfeen/diro/utils"
)

// ClipController contains clip submission and review logic
type ClipController struct {
	DB      *mongo.Client
	wallets *repositories.WalletRepository
	logger  *log.Logger
}

// NewClipController creates a new clip controller
func NewClipController(db *mongo.Client, wallets *repositories.WalletRepository) *ClipController {
	return &ClipController{
		DB:      db,
		wallets: wallets,
		logger:  log.New(os.Stdout, "[CLIP] ", log.LstdFlags),
	}
}

// clipListScope restricts clip listings by caller role: creators see
// their own clips, brands see clips against their campaigns, admins
// see everything.
func clipListScope(role, userID string, brandCampaignIDs []string) bson.M {
	switch role {
	case models.RoleAdmin:
		return bson.M{}
	case models.RoleBrand:
		return bson.M{"campaignId": bson.M{"$in": brandCampaignIDs}}
	default:
		return bson.M{"creatorId": userID}
	}
}

// Submit creates a pending clip against a live campaign.
func (clc *ClipController) Submit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, clc.logger, utils.AuthenticationError(""))
	}

	var req models.SubmitClipRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, clc.logger, utils.ValidationError("Invalid request body"))
	}

	var campaign models.Campaign
	err := config.GetCollection(clc.DB, "campaigns").FindOne(ctx, bson.M{"campaignId": req.CampaignID}).Decode(&campaign)
	if err == mongo.ErrNoDocuments {
		return utils.RespondError(c, clc.logger, utils.NotFoundError("Campaign"))
	}
	if err != nil {
		return utils.RespondError(c, clc.logger, err)
	}
	if campaign.Status != models.CampaignLive {
		return utils.RespondError(c, clc.logger, utils.ValidationError("campaignId: Clips can only be submitted to live campaigns"))
	}

	now := time.Now()
	clip := models.Clip{
		ClipID:            utils.GenerateID("clip"),
		CampaignID:        campaign.CampaignID,
		CreatorID:         claims.UserID,
		ClipLink:          utils.SanitizeInput(req.ClipLink),
		OriginalVideoLink: utils.SanitizeInput(req.OriginalVideoLink),
		ClipTimestamps:    req.ClipTimestamps,
		EditDescription:   utils.SanitizeInput(req.EditDescription),
		Status:            models.ClipPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if msgs := clip.Validate(); len(msgs) > 0 {
		return utils.RespondError(c, clc.logger, utils.ValidationError(msgs...))
	}

	if _, err := config.GetCollection(clc.DB, "clips").InsertOne(ctx, clip); err != nil {
		return utils.RespondError(c, clc.logger, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Clip submitted successfully",
		Data:    clip,
	})
}

// List returns the clips visible to the caller, newest first.
func (clc *ClipController) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, clc.logger, utils.AuthenticationError(""))
	}

	var brandCampaignIDs []string
	if claims.Role == models.RoleBrand {
		ids, err := campaignIDsForBrand(ctx, clc.DB, claims.UserID)
		if err != nil {
			return utils.RespondError(c, clc.logger, err)
		}
		brandCampaignIDs = ids
	}

	filter := clipListScope(claims.Role, claims.UserID, brandCampaignIDs)
	if campaignID := c.QueryParam("campaignId"); campaignID != "" {
		filter["campaignId"] = campaignID
	}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(clc.DB, "clips").Find(ctx, filter, opts)
	if err != nil {
		return utils.RespondError(c, clc.logger, err)
	}
	defer cursor.Close(ctx)

	clips := []models.Clip{}
	if err := cursor.All(ctx, &clips); err != nil {
		return utils.RespondError(c, clc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Clips retrieved successfully",
		Data:    clips,
	})
}

// Get returns one clip if the caller is allowed to see it.
func (clc *ClipController) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, clc.logger, utils.AuthenticationError(""))
	}

	clip, err := clc.findClip(ctx, c.Param("clipId"))
	if err != nil {
		return utils.RespondError(c, clc.logger, err)
	}

	switch claims.Role {
	case models.RoleAdmin:
	case models.RoleCreator:
		if clip.CreatorID != claims.UserID {
			return utils.RespondError(c, clc.logger, utils.ForbiddenError("Cannot view another creator's clip"))
		}
	case models.RoleBrand:
		var campaign models.Campaign
		err := config.GetCollection(clc.DB, "campaigns").FindOne(ctx, bson.M{"campaignId": clip.CampaignID}).Decode(&campaign)
		if err != nil || campaign.BrandID != claims.UserID {
			return utils.RespondError(c, clc.logger, utils.ForbiddenError("Cannot view clips outside your campaigns"))
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Clip retrieved successfully",
		Data:    clip,
	})
}

// UpdateStatus reviews a clip. Approving a clip whose views already
// meet the campaign threshold accrues its earnings to the creator's
// wallet exactly once; the accrual marker on the clip is the guard.
func (clc *ClipController) UpdateStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.UpdateClipStatusRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, clc.logger, utils.ValidationError("Invalid request body"))
	}
	if !models.ValidClipStatus(req.Status) {
		return utils.RespondError(c, clc.logger, utils.ValidationError("status: Status must be pending, approved, or flagged"))
	}

	update := bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}}
	result := config.GetCollection(clc.DB, "clips").FindOneAndUpdate(ctx,
		bson.M{"clipId": c.Param("clipId")}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var clip models.Clip
	if err := result.Decode(&clip); err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.RespondError(c, clc.logger, utils.NotFoundError("Clip"))
		}
		return utils.RespondError(c, clc.logger, err)
	}

	if req.Status == models.ClipApproved {
		if err := clc.accrueEarnings(ctx, &clip); err != nil {
			return utils.RespondError(c, clc.logger, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Clip status updated successfully",
		Data:    clip,
	})
}

// UpdateViews records the latest view count from the tracking
// collaborator and recomputes earnings from scratch, so repeated calls
// with the same count are idempotent. Wallets are never touched here.
func (clc *ClipController) UpdateViews(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.UpdateClipViewsRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, clc.logger, utils.ValidationError("Invalid request body"))
	}
	if req.Views < 0 {
		return utils.RespondError(c, clc.logger, utils.ValidationError("views: Views cannot be negative"))
	}

	clip, err := clc.findClip(ctx, c.Param("clipId"))
	if err != nil {
		return utils.RespondError(c, clc.logger, err)
	}

	var campaign models.Campaign
	err = config.GetCollection(clc.DB, "campaigns").FindOne(ctx, bson.M{"campaignId": clip.CampaignID}).Decode(&campaign)
	if err == mongo.ErrNoDocuments {
		return utils.RespondError(c, clc.logger, utils.NotFoundError("Campaign"))
	}
	if err != nil {
		return utils.RespondError(c, clc.logger, err)
	}

	clip.Views = req.Views
	clip.Earnings = models.CalculateEarnings(req.Views, campaign.CPM, campaign.MinViewsForPayout)
	clip.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"views":     clip.Views,
		"earnings":  clip.Earnings,
		"updatedAt": clip.UpdatedAt,
	}}
	if _, err := config.GetCollection(clc.DB, "clips").UpdateOne(ctx, bson.M{"clipId": clip.ClipID}, update); err != nil {
		return utils.RespondError(c, clc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Clip views updated successfully",
		Data:    clip,
	})
}

// accrualClaim is the filter for claiming a clip's one-time earnings
// accrual: only an approved clip whose marker is still unset matches.
func accrualClaim(clipID string) bson.M {
	return bson.M{
		"clipId":    clipID,
		"status":    models.ClipApproved,
		"accruedAt": nil,
	}
}

// accrueEarnings credits an approved clip's earnings to its creator
// once. The conditional update claiming the accrual marker is the
// idempotency guard; only the winner credits the wallet, and a failed
// credit releases the marker so a later approval retries it.
func (clc *ClipController) accrueEarnings(ctx context.Context, clip *models.Clip) error {
	var campaign models.Campaign
	err := config.GetCollection(clc.DB, "campaigns").FindOne(ctx, bson.M{"campaignId": clip.CampaignID}).Decode(&campaign)
	if err == mongo.ErrNoDocuments {
		return utils.NotFoundError("Campaign")
	}
	if err != nil {
		return err
	}

	amount := models.CalculateEarnings(clip.Views, campaign.CPM, campaign.MinViewsForPayout)
	if amount <= 0 {
		return nil
	}

	now := time.Now()
	filter := accrualClaim(clip.ClipID)
	update := bson.M{"$set": bson.M{
		"accruedAmount": amount,
		"accruedAt":     now,
		"updatedAt":     now,
	}}

	result, err := config.GetCollection(clc.DB, "clips").UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Already accrued by an earlier approval
		return nil
	}

	if err := clc.wallets.CreditAccrual(ctx, clip.CreatorID, amount); err != nil {
		// The wallet was never credited; release the marker so the
		// next approval retries the accrual instead of losing it.
		clc.logger.Printf("Failed to credit accrual for clip %s: %v", clip.ClipID, err)
		release := bson.M{"$set": bson.M{
			"accruedAmount": 0,
			"accruedAt":     nil,
			"updatedAt":     time.Now(),
		}}
		if _, releaseErr := config.GetCollection(clc.DB, "clips").UpdateOne(ctx,
			bson.M{"clipId": clip.ClipID}, release); releaseErr != nil {
			clc.logger.Printf("Failed to release accrual claim for clip %s: %v", clip.ClipID, releaseErr)
		}
		return err
	}

	clip.AccruedAmount = amount
	clip.AccruedAt = &now
	return nil
}

func (clc *ClipController) findClip(ctx context.Context, clipID string) (*models.Clip, error) {
	var clip models.Clip
	err := config.GetCollection(clc.DB, "clips").FindOne(ctx, bson.M{"clipId": clipID}).Decode(&clip)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFoundError("Clip")
	}
	if err != nil {
		return nil, err
	}
	return &clip, nil
}

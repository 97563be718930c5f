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
	"github.com/RimshaArfeen/diro/services"
	"github.com/RimshaArfeen/diro/utils"
)

// CampaignController contains campaign lifecycle logic
type CampaignController struct {
	DB       *mongo.Client
	settings *services.SettingsService
	logger   *log.Logger
}

// NewCampaignController creates a new campaign controller
func NewCampaignController(db *mongo.Client, settings *services.SettingsService) *CampaignController {
	return &CampaignController{
		DB:       db,
		settings: settings,
		logger:   log.New(os.Stdout, "[CAMPAIGN] ", log.LstdFlags),
	}
}

// campaignOwner resolves who a new campaign belongs to: brands always
// own their own campaigns, admins may create on a brand's behalf.
func campaignOwner(role, callerID, requestedBrandID string) string {
	if role == models.RoleAdmin && requestedBrandID != "" {
		return requestedBrandID
	}
	return callerID
}

// campaignListScope restricts campaign listings by caller role:
// anonymous callers and creators browse live campaigns, brands also
// see their own regardless of status, admins see everything.
func campaignListScope(role, userID string) bson.M {
	switch role {
	case models.RoleAdmin:
		return bson.M{}
	case models.RoleBrand:
		return bson.M{"$or": []bson.M{
			{"status": models.CampaignLive},
			{"brandId": userID},
		}}
	default:
		return bson.M{"status": models.CampaignLive}
	}
}

// Create validates the funding guard and persists a pending campaign.
// Brands must carry the admin-granted canCreateCampaign flag.
func (cc *CampaignController) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, cc.logger, utils.AuthenticationError(""))
	}

	if claims.Role == models.RoleBrand {
		var brand models.User
		err := config.GetCollection(cc.DB, "users").FindOne(ctx, bson.M{"userId": claims.UserID}).Decode(&brand)
		if err != nil {
			return utils.RespondError(c, cc.logger, err)
		}
		if !brand.CanCreateCampaign {
			return utils.RespondError(c, cc.logger, utils.ForbiddenError("Campaign creation requires admin approval"))
		}
	}

	var req models.CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, cc.logger, utils.ValidationError("Invalid request body"))
	}

	brandID := campaignOwner(claims.Role, claims.UserID, req.BrandID)
	if brandID != claims.UserID {
		count, err := config.GetCollection(cc.DB, "users").CountDocuments(ctx,
			bson.M{"userId": brandID, "role": models.RoleBrand})
		if err != nil {
			return utils.RespondError(c, cc.logger, err)
		}
		if count == 0 {
			return utils.RespondError(c, cc.logger, utils.NotFoundError("Brand"))
		}
	}

	settings, err := cc.settings.Get(ctx)
	if err != nil {
		return utils.RespondError(c, cc.logger, err)
	}

	minViews := req.MinViewsForPayout
	if minViews == 0 {
		minViews = settings.MinViewsForPayout
	}

	now := time.Now()
	campaign := models.Campaign{
		CampaignID:        utils.GenerateID("camp"),
		BrandID:           brandID,
		Title:             utils.SanitizeInput(req.Title),
		Description:       utils.SanitizeInput(req.Description),
		SourceVideos:      utils.SanitizeStringArray(req.SourceVideos),
		GoalViews:         req.GoalViews,
		CPM:               req.CPM,
		Deposit:           req.Deposit,
		MinViewsForPayout: minViews,
		Status:            models.CampaignPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if msgs := campaign.Validate(settings.MinCPM, settings.MinViewsForPayout); len(msgs) > 0 {
		return utils.RespondError(c, cc.logger, utils.ValidationError(msgs...))
	}

	if _, err := config.GetCollection(cc.DB, "campaigns").InsertOne(ctx, campaign); err != nil {
		return utils.RespondError(c, cc.logger, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Campaign created successfully",
		Data:    campaign,
	})
}

// List returns campaigns visible to the caller, newest first.
func (cc *CampaignController) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var role, userID string
	if claims := middleware.GetUserFromToken(c); claims != nil {
		role = claims.Role
		userID = claims.UserID
	}

	filter := campaignListScope(role, userID)
	if status := c.QueryParam("status"); status != "" && role == models.RoleAdmin {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(cc.DB, "campaigns").Find(ctx, filter, opts)
	if err != nil {
		return utils.RespondError(c, cc.logger, err)
	}
	defer cursor.Close(ctx)

	campaigns := []models.Campaign{}
	if err := cursor.All(ctx, &campaigns); err != nil {
		return utils.RespondError(c, cc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Campaigns retrieved successfully",
		Data:    campaigns,
	})
}

// Get returns one campaign if the caller is allowed to see it.
func (cc *CampaignController) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	campaign, err := cc.findCampaign(ctx, c.Param("campaignId"))
	if err != nil {
		return utils.RespondError(c, cc.logger, err)
	}

	var role, userID string
	if claims := middleware.GetUserFromToken(c); claims != nil {
		role = claims.Role
		userID = claims.UserID
	}
	if campaign.Status != models.CampaignLive && role != models.RoleAdmin && campaign.BrandID != userID {
		return utils.RespondError(c, cc.logger, utils.NotFoundError("Campaign"))
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Campaign retrieved successfully",
		Data:    campaign,
	})
}

// Update applies partial changes and re-validates every invariant,
// including the funding guard, against the updated document.
func (cc *CampaignController) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, cc.logger, utils.AuthenticationError(""))
	}

	campaign, err := cc.findCampaign(ctx, c.Param("campaignId"))
	if err != nil {
		return utils.RespondError(c, cc.logger, err)
	}

	if claims.Role != models.RoleAdmin && campaign.BrandID != claims.UserID {
		return utils.RespondError(c, cc.logger, utils.ForbiddenError("Cannot modify another brand's campaign"))
	}

	var req models.UpdateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, cc.logger, utils.ValidationError("Invalid request body"))
	}

	if req.Title != nil {
		campaign.Title = utils.SanitizeInput(*req.Title)
	}
	if req.Description != nil {
		campaign.Description = utils.SanitizeInput(*req.Description)
	}
	if req.SourceVideos != nil {
		campaign.SourceVideos = utils.SanitizeStringArray(req.SourceVideos)
	}
	if req.GoalViews != nil {
		campaign.GoalViews = *req.GoalViews
	}
	if req.CPM != nil {
		campaign.CPM = *req.CPM
	}
	if req.Deposit != nil {
		campaign.Deposit = *req.Deposit
	}
	if req.MinViewsForPayout != nil {
		campaign.MinViewsForPayout = *req.MinViewsForPayout
	}

	settings, err := cc.settings.Get(ctx)
	if err != nil {
		return utils.RespondError(c, cc.logger, err)
	}
	if msgs := campaign.Validate(settings.MinCPM, settings.MinViewsForPayout); len(msgs) > 0 {
		return utils.RespondError(c, cc.logger, utils.ValidationError(msgs...))
	}

	campaign.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":             campaign.Title,
		"description":       campaign.Description,
		"sourceVideos":      campaign.SourceVideos,
		"goalViews":         campaign.GoalViews,
		"cpm":               campaign.CPM,
		"deposit":           campaign.Deposit,
		"minViewsForPayout": campaign.MinViewsForPayout,
		"updatedAt":         campaign.UpdatedAt,
	}}
	if _, err := config.GetCollection(cc.DB, "campaigns").UpdateOne(ctx, bson.M{"campaignId": campaign.CampaignID}, update); err != nil {
		return utils.RespondError(c, cc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Campaign updated successfully",
		Data:    campaign,
	})
}

// UpdateStatus moves a campaign to live, rejected, or completed.
func (cc *CampaignController) UpdateStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.UpdateCampaignStatusRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, cc.logger, utils.ValidationError("Invalid request body"))
	}

	switch req.Status {
	case models.CampaignLive, models.CampaignRejected, models.CampaignCompleted:
	default:
		return utils.RespondError(c, cc.logger, utils.ValidationError("status: Status must be live, rejected, or completed"))
	}

	update := bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}}
	result := config.GetCollection(cc.DB, "campaigns").FindOneAndUpdate(ctx,
		bson.M{"campaignId": c.Param("campaignId")}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var campaign models.Campaign
	if err := result.Decode(&campaign); err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.RespondError(c, cc.logger, utils.NotFoundError("Campaign"))
		}
		return utils.RespondError(c, cc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Campaign status updated successfully",
		Data:    campaign,
	})
}

// Delete removes a campaign (admin only, wired in routes).
func (cc *CampaignController) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(cc.DB, "campaigns").DeleteOne(ctx, bson.M{"campaignId": c.Param("campaignId")})
	if err != nil {
		return utils.RespondError(c, cc.logger, err)
	}
	if result.DeletedCount == 0 {
		return utils.RespondError(c, cc.logger, utils.NotFoundError("Campaign"))
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Campaign deleted successfully",
	})
}

// Analytics aggregates clip performance and deposit usage for a
// campaign the caller owns (or any campaign for admins).
func (cc *CampaignController) Analytics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, cc.logger, utils.AuthenticationError(""))
	}

	campaign, err := cc.findCampaign(ctx, c.Param("campaignId"))
	if err != nil {
		return utils.RespondError(c, cc.logger, err)
	}
	if claims.Role != models.RoleAdmin && campaign.BrandID != claims.UserID {
		return utils.RespondError(c, cc.logger, utils.ForbiddenError("Cannot view another brand's campaign analytics"))
	}

	pipeline := []bson.M{
		{"$match": bson.M{"campaignId": campaign.CampaignID}},
		{"$group": bson.M{
			"_id":           nil,
			"totalClips":    bson.M{"$sum": 1},
			"totalViews":    bson.M{"$sum": "$views"},
			"totalEarnings": bson.M{"$sum": "$earnings"},
			"totalAccrued":  bson.M{"$sum": "$accruedAmount"},
			"approvedClips": bson.M{"$sum": bson.M{"$cond": []interface{}{
				bson.M{"$eq": []interface{}{"$status", models.ClipApproved}}, 1, 0,
			}}},
		}},
	}

	cursor, err := config.GetCollection(cc.DB, "clips").Aggregate(ctx, pipeline)
	if err != nil {
		return utils.RespondError(c, cc.logger, err)
	}
	defer cursor.Close(ctx)

	stats := struct {
		TotalClips    int64   `bson:"totalClips" json:"totalClips"`
		ApprovedClips int64   `bson:"approvedClips" json:"approvedClips"`
		TotalViews    int64   `bson:"totalViews" json:"totalViews"`
		TotalEarnings float64 `bson:"totalEarnings" json:"totalEarnings"`
		TotalAccrued  float64 `bson:"totalAccrued" json:"totalAccrued"`
	}{}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return utils.RespondError(c, cc.logger, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Campaign analytics retrieved successfully",
		Data: map[string]interface{}{
			"campaignId":       campaign.CampaignID,
			"goalViews":        campaign.GoalViews,
			"deposit":          campaign.Deposit,
			"depositRemaining": campaign.Deposit - stats.TotalAccrued,
			"clips":            stats,
		},
	})
}

// campaignIDsForBrand lists the campaign ids owned by a brand, used
// by the role-scoped clip and payment listings.
func campaignIDsForBrand(ctx context.Context, db *mongo.Client, brandID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"campaignId": 1})
	cursor, err := config.GetCollection(db, "campaigns").Find(ctx, bson.M{"brandId": brandID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		CampaignID string `bson:"campaignId"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.CampaignID)
	}
	return ids, nil
}

func (cc *CampaignController) findCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := config.GetCollection(cc.DB, "campaigns").FindOne(ctx, bson.M{"campaignId": campaignID}).Decode(&campaign)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFoundError("Campaign")
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

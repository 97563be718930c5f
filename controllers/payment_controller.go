package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RimshaArfeen/diro/config"
	"github.com/RimshaArfeen/diro/middleware"
	"github.com/RimshaArfeen/diro/models"
	"github.com/RimshaArfeen/diro/repositories"
	"github.com/RimshaArfeen/diro/services"
	"github.com/RimshaArfeen/diro/utils"
)

// PaymentController governs payment creation and the status machine
type PaymentController struct {
	DB      *mongo.Client
	wallets *repositories.WalletRepository
	gateway *services.GatewayService
	logger  *log.Logger
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *mongo.Client, wallets *repositories.WalletRepository, gateway *services.GatewayService) *PaymentController {
	return &PaymentController{
		DB:      db,
		wallets: wallets,
		gateway: gateway,
		logger:  log.New(os.Stdout, "[PAYMENT] ", log.LstdFlags),
	}
}

// paymentListScope builds the row filter a caller is allowed to see:
// creators their own payouts, brands payments on their campaigns or
// addressed to them, admins everything.
func paymentListScope(role, userID string, brandCampaignIDs []string) bson.M {
	switch role {
	case models.RoleAdmin:
		return bson.M{}
	case models.RoleBrand:
		return bson.M{"$or": []bson.M{
			{"campaignId": bson.M{"$in": brandCampaignIDs}},
			{"creatorId": userID},
		}}
	default:
		return bson.M{"creatorId": userID}
	}
}

// CreateDeposit opens a pending deposit payment against a campaign.
// Brands may only fund their own campaigns.
func (pc *PaymentController) CreateDeposit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, pc.logger, utils.AuthenticationError(""))
	}

	var req models.CreateDepositRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, pc.logger, utils.ValidationError("Invalid request body"))
	}

	var campaign models.Campaign
	err := config.GetCollection(pc.DB, "campaigns").FindOne(ctx, bson.M{"campaignId": req.CampaignID}).Decode(&campaign)
	if err == mongo.ErrNoDocuments {
		return utils.RespondError(c, pc.logger, utils.NotFoundError("Campaign"))
	}
	if err != nil {
		return utils.RespondError(c, pc.logger, err)
	}

	if claims.Role == models.RoleBrand && campaign.BrandID != claims.UserID {
		return utils.RespondError(c, pc.logger, utils.ForbiddenError("Cannot deposit to another brand's campaign"))
	}

	payment := models.Payment{
		PaymentID:     utils.GenerateID("pay"),
		Type:          models.PaymentDeposit,
		CampaignID:    campaign.CampaignID,
		Amount:        req.Amount,
		Status:        models.PaymentPending,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	return pc.insertPayment(c, ctx, payment)
}

// CreatePayout opens a pending payout to a creator. The withdrawable
// balance must cover the amount at creation time; completion checks it
// again before committing the debit.
func (pc *PaymentController) CreatePayout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.CreatePayoutRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, pc.logger, utils.ValidationError("Invalid request body"))
	}

	var creator models.User
	err := config.GetCollection(pc.DB, "users").FindOne(ctx, bson.M{
		"userId": req.CreatorID,
		"role":   models.RoleCreator,
	}).Decode(&creator)
	if err == mongo.ErrNoDocuments {
		return utils.RespondError(c, pc.logger, utils.NotFoundError("Creator"))
	}
	if err != nil {
		return utils.RespondError(c, pc.logger, err)
	}

	if creator.Wallet.WithdrawableBalance < req.Amount {
		return utils.RespondError(c, pc.logger, utils.ValidationError("Insufficient withdrawable balance"))
	}

	payment := models.Payment{
		PaymentID:     utils.GenerateID("pay"),
		Type:          models.PaymentPayout,
		CreatorID:     creator.UserID,
		Amount:        req.Amount,
		Status:        models.PaymentPending,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	return pc.insertPayment(c, ctx, payment)
}

func (pc *PaymentController) insertPayment(c echo.Context, ctx context.Context, payment models.Payment) error {
	if msgs := payment.Validate(); len(msgs) > 0 {
		return utils.RespondError(c, pc.logger, utils.ValidationError(msgs...))
	}

	ref, err := pc.gateway.Initiate(&payment)
	if err != nil {
		return utils.RespondError(c, pc.logger, utils.ValidationError("paymentMethod: " + err.Error()))
	}
	payment.ExternalTransactionID = ref

	if _, err := config.GetCollection(pc.DB, "payments").InsertOne(ctx, payment); err != nil {
		return utils.RespondError(c, pc.logger, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Payment created successfully",
		Data:    payment,
	})
}

// List returns payments visible to the caller with paging.
func (pc *PaymentController) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, pc.logger, utils.AuthenticationError(""))
	}

	var brandCampaignIDs []string
	if claims.Role == models.RoleBrand {
		ids, err := campaignIDsForBrand(ctx, pc.DB, claims.UserID)
		if err != nil {
			return utils.RespondError(c, pc.logger, err)
		}
		brandCampaignIDs = ids
	}

	filter := paymentListScope(claims.Role, claims.UserID, brandCampaignIDs)
	if t := c.QueryParam("type"); t != "" {
		filter["type"] = t
	}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}
	if campaignID := c.QueryParam("campaignId"); campaignID != "" {
		filter["campaignId"] = campaignID
	}
	if creatorID := c.QueryParam("creatorId"); creatorID != "" && claims.Role == models.RoleAdmin {
		filter["creatorId"] = creatorID
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	collection := config.GetCollection(pc.DB, "payments")
	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return utils.RespondError(c, pc.logger, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return utils.RespondError(c, pc.logger, err)
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return utils.RespondError(c, pc.logger, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payments retrieved successfully",
		Data: map[string]interface{}{
			"payments": payments,
			"pagination": map[string]interface{}{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": (total + int64(limit) - 1) / int64(limit),
			},
		},
	})
}

// Get returns one payment if it falls inside the caller's scope.
func (pc *PaymentController) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return utils.RespondError(c, pc.logger, utils.AuthenticationError(""))
	}

	var payment models.Payment
	err := config.GetCollection(pc.DB, "payments").FindOne(ctx, bson.M{"paymentId": c.Param("paymentId")}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return utils.RespondError(c, pc.logger, utils.NotFoundError("Payment"))
	}
	if err != nil {
		return utils.RespondError(c, pc.logger, err)
	}

	switch claims.Role {
	case models.RoleAdmin:
	case models.RoleCreator:
		if payment.CreatorID != claims.UserID {
			return utils.RespondError(c, pc.logger, utils.ForbiddenError("Cannot view another creator's payment"))
		}
	case models.RoleBrand:
		owned := payment.CreatorID == claims.UserID
		if !owned && payment.CampaignID != "" {
			var campaign models.Campaign
			err := config.GetCollection(pc.DB, "campaigns").FindOne(ctx, bson.M{"campaignId": payment.CampaignID}).Decode(&campaign)
			owned = err == nil && campaign.BrandID == claims.UserID
		}
		if !owned {
			return utils.RespondError(c, pc.logger, utils.ForbiddenError("Cannot view payments outside your campaigns"))
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment retrieved successfully",
		Data:    payment,
	})
}

// transitionClaim is the filter for claiming a status transition. The
// expected current status is part of the filter, so concurrent
// requests race for a single winner and completion side effects can
// only ever run once.
func transitionClaim(paymentID, from string) bson.M {
	return bson.M{"paymentId": paymentID, "status": from}
}

// UpdateStatus drives the payment state machine. The transition is
// claimed with a conditional write before any money moves; the loser
// of a concurrent claim gets a validation error, and a failed
// completion effect reverts the claim so the payment stays retryable.
func (pc *PaymentController) UpdateStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, pc.logger, utils.ValidationError("Invalid request body"))
	}

	collection := config.GetCollection(pc.DB, "payments")

	var payment models.Payment
	err := collection.FindOne(ctx, bson.M{"paymentId": c.Param("paymentId")}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return utils.RespondError(c, pc.logger, utils.NotFoundError("Payment"))
	}
	if err != nil {
		return utils.RespondError(c, pc.logger, err)
	}

	if err := models.ValidateTransition(payment.Status, req.Status); err != nil {
		return utils.RespondError(c, pc.logger, utils.ValidationError(err.Error()))
	}

	set := bson.M{"status": req.Status, "updatedAt": time.Now()}
	if req.ExternalTransactionID != "" {
		set["externalTransactionId"] = req.ExternalTransactionID
	}

	result := collection.FindOneAndUpdate(ctx,
		transitionClaim(payment.PaymentID, payment.Status),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var updated models.Payment
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.RespondError(c, pc.logger, utils.ValidationError("Payment status changed concurrently; transition not applied"))
		}
		return utils.RespondError(c, pc.logger, err)
	}

	if req.Status == models.PaymentCompleted {
		if err := pc.applyCompletionEffects(ctx, &updated); err != nil {
			// The money did not move; put the payment back in its
			// prior state so the transition can be retried.
			if _, revertErr := collection.UpdateOne(ctx,
				transitionClaim(payment.PaymentID, req.Status),
				bson.M{"$set": bson.M{"status": payment.Status, "updatedAt": time.Now()}}); revertErr != nil {
				pc.logger.Printf("Failed to revert payment %s to %s: %v", payment.PaymentID, payment.Status, revertErr)
			}
			return utils.RespondError(c, pc.logger, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment status updated successfully",
		Data:    updated,
	})
}

// applyCompletionEffects commits the balance movement a completing
// payment represents: payouts debit the creator's withdrawable
// balance, deposits raise the campaign's reserved funds.
func (pc *PaymentController) applyCompletionEffects(ctx context.Context, payment *models.Payment) error {
	switch payment.Type {
	case models.PaymentPayout:
		ok, err := pc.wallets.DebitWithdrawable(ctx, payment.CreatorID, payment.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return utils.ValidationError("Insufficient withdrawable balance")
		}
	case models.PaymentDeposit:
		result, err := config.GetCollection(pc.DB, "campaigns").UpdateOne(ctx,
			bson.M{"campaignId": payment.CampaignID},
			bson.M{"$inc": bson.M{"deposit": payment.Amount}})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return utils.NotFoundError("Campaign")
		}
	}
	return nil
}

// Audit summarizes deposits and payouts per status plus overall volume.
func (pc *PaymentController) Audit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	match := bson.M{}
	if start := c.QueryParam("startDate"); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			match["createdAt"] = bson.M{"$gte": t}
		}
	}
	if end := c.QueryParam("endDate"); end != "" {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			if existing, ok := match["createdAt"].(bson.M); ok {
				existing["$lte"] = t
			} else {
				match["createdAt"] = bson.M{"$lte": t}
			}
		}
	}

	collection := config.GetCollection(pc.DB, "payments")

	byStatus := func(paymentType string) ([]bson.M, error) {
		pipeline := []bson.M{
			{"$match": mergeFilters(match, bson.M{"type": paymentType})},
			{"$group": bson.M{
				"_id":   "$status",
				"count": bson.M{"$sum": 1},
				"total": bson.M{"$sum": "$amount"},
			}},
		}
		cursor, err := collection.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var rows []bson.M
		if err := cursor.All(ctx, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}

	deposits, err := byStatus(models.PaymentDeposit)
	if err != nil {
		return utils.RespondError(c, pc.logger, err)
	}
	payouts, err := byStatus(models.PaymentPayout)
	if err != nil {
		return utils.RespondError(c, pc.logger, err)
	}

	summaryPipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":               nil,
			"totalTransactions": bson.M{"$sum": 1},
			"totalVolume":       bson.M{"$sum": "$amount"},
		}},
	}
	cursor, err := collection.Aggregate(ctx, summaryPipeline)
	if err != nil {
		return utils.RespondError(c, pc.logger, err)
	}
	defer cursor.Close(ctx)

	summary := bson.M{"totalTransactions": 0, "totalVolume": 0}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&summary); err != nil {
			return utils.RespondError(c, pc.logger, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment audit retrieved successfully",
		Data: map[string]interface{}{
			"deposits": deposits,
			"payouts":  payouts,
			"summary":  summary,
		},
	})
}

func mergeFilters(base, extra bson.M) bson.M {
	merged := bson.M{}
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

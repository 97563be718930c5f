package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RimshaArfeen/diro/config"
	"github.com/RimshaArfeen/diro/models"
)

// WalletRepository performs all wallet balance mutations. Every write
// is a single conditional update so concurrent settlements and payout
// completions cannot lose increments or drive a balance negative.
type WalletRepository struct {
	collection *mongo.Collection
}

func NewWalletRepository(db *mongo.Client) *WalletRepository {
	return &WalletRepository{
		collection: config.GetCollection(db, "users"),
	}
}

// CreditAccrual adds freshly approved clip earnings to the creator's
// lifetime and pending balances.
func (r *WalletRepository) CreditAccrual(ctx context.Context, creatorID string, amount float64) error {
	filter := bson.M{"userId": creatorID, "role": models.RoleCreator}
	update := bson.M{"$inc": bson.M{
		"wallet.availableBalance": amount,
		"wallet.pendingBalance":   amount,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Settle moves amount from pending to withdrawable, guarded on the
// pending balance so a double settlement cannot overdraw it. Returns
// false when the guard did not match.
func (r *WalletRepository) Settle(ctx context.Context, creatorID string, amount float64) (bool, error) {
	filter := bson.M{
		"userId":                creatorID,
		"role":                  models.RoleCreator,
		"wallet.pendingBalance": bson.M{"$gte": amount},
	}
	update := bson.M{"$inc": bson.M{
		"wallet.pendingBalance":      -amount,
		"wallet.withdrawableBalance": amount,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// DebitWithdrawable deducts a completed payout, guarded on the
// withdrawable balance. Returns false when the balance no longer
// covers the amount.
func (r *WalletRepository) DebitWithdrawable(ctx context.Context, creatorID string, amount float64) (bool, error) {
	filter := bson.M{
		"userId":                     creatorID,
		"wallet.withdrawableBalance": bson.M{"$gte": amount},
	}
	update := bson.M{"$inc": bson.M{"wallet.withdrawableBalance": -amount}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

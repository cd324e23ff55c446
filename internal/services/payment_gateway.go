// internal/services/payment_gateway.go
package services

import (
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// Payment intent states the funding flow acts on.
const (
	IntentSucceeded = string(stripe.PaymentIntentStatusSucceeded)
	IntentCanceled  = string(stripe.PaymentIntentStatusCanceled)
)

type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       uint64
	Currency     string
	Status       string
	Metadata     map[string]string
}

// PaymentGateway is the card processor wallets are topped up through.
type PaymentGateway interface {
	CreateIntent(amount uint64, currency string, metadata map[string]string) (*PaymentIntent, error)
	GetIntent(id string) (*PaymentIntent, error)
}

type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreateIntent(amount uint64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (g *StripeGateway) GetIntent(id string) (*PaymentIntent, error) {
	pi, err := paymentintent.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *PaymentIntent {
	var amount uint64
	if pi.Amount > 0 {
		amount = uint64(pi.Amount)
	}
	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
	}
}

// README: Payment gateway wrappers; stripe-backed or local transaction ids.
package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"taxigo/internal/types"
)

// StripeGateway charges rides through Stripe PaymentIntents.
type StripeGateway struct{}

func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{}
}

func (g *StripeGateway) Charge(ctx context.Context, amount types.Money, orderID types.ID) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.Amount),
		Currency: stripe.String(amount.Currency),
		Params: stripe.Params{
			Context:  ctx,
			Metadata: map[string]string{"order_id": orderID.String()},
		},
	}
	params.Confirm = stripe.Bool(true)
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe charge: %w", err)
	}
	return pi.ID, nil
}

// LocalGateway issues opaque transaction ids without an external processor.
// Used when no stripe key is configured (cash rides, development).
type LocalGateway struct{}

func NewLocalGateway() *LocalGateway {
	return &LocalGateway{}
}

func (g *LocalGateway) Charge(_ context.Context, _ types.Money, _ types.ID) (string, error) {
	return "txn_" + uuid.NewString(), nil
}

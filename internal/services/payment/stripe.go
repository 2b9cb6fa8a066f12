package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"campusrent/internal/logger"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
)

// StripeGateway holds funds with manual-capture PaymentIntents: Authorize
// creates and confirms the intent against the renter's payment method,
// Capture captures it and Void cancels it.
type StripeGateway struct {
	intents  paymentintent.Client
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	if secretKey == "" {
		panic("stripe secret key is required")
	}
	return newStripeGateway(stripe.GetBackend(stripe.APIBackend), secretKey, currency)
}

func newStripeGateway(backend stripe.Backend, secretKey, currency string) *StripeGateway {
	if currency == "" {
		currency = string(stripe.CurrencyINR)
	}
	return &StripeGateway{
		intents:  paymentintent.Client{B: backend, Key: secretKey},
		currency: currency,
	}
}

func (g *StripeGateway) Provider() string { return ProviderStripe }

// Authorize returns the intent ID only once Stripe reports requires_capture.
// An intent left in any other state (requires_action for 3-D Secure, for
// one) is cancelled and the hold fails.
func (g *StripeGateway) Authorize(ctx context.Context, auth Authorization) (string, error) {
	if !auth.Amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	if auth.PaymentMethod == "" {
		return "", ErrNoPaymentMethod
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(minorUnits(auth.Amount)),
		Currency:           stripe.String(g.currency),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		PaymentMethod:      stripe.String(auth.PaymentMethod),
		Confirm:            stripe.Bool(true),
		Description:        stripe.String("Rental escrow " + auth.RentalID),
	}
	params.Context = ctx
	params.SetIdempotencyKey("escrow-hold-" + auth.EscrowID)
	params.AddMetadata("escrow_id", auth.EscrowID)
	params.AddMetadata("rental_id", auth.RentalID)
	params.AddMetadata("renter_id", strconv.FormatUint(uint64(auth.RenterID), 10))

	logger.ExternalServiceCall("stripe", "payment_intent.create", "escrow_id", auth.EscrowID)
	intent, err := g.intents.New(params)
	logger.ExternalServiceResult("stripe", "payment_intent.create", err, "escrow_id", auth.EscrowID)
	if err != nil {
		return "", translateStripeError(err)
	}

	if intent.Status != stripe.PaymentIntentStatusRequiresCapture {
		g.abandon(ctx, intent.ID)
		return "", fmt.Errorf("%w: payment intent is %s", ErrNotAuthorized, intent.Status)
	}
	return intent.ID, nil
}

func (g *StripeGateway) Capture(ctx context.Context, reference string) error {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	params.SetIdempotencyKey("escrow-capture-" + reference)

	logger.ExternalServiceCall("stripe", "payment_intent.capture", "reference", reference)
	_, err := g.intents.Capture(reference, params)
	logger.ExternalServiceResult("stripe", "payment_intent.capture", err, "reference", reference)
	if err != nil {
		if g.alreadyIn(ctx, reference, err, stripe.PaymentIntentStatusSucceeded) {
			return nil
		}
		return translateStripeError(err)
	}
	return nil
}

func (g *StripeGateway) Void(ctx context.Context, reference string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	params.SetIdempotencyKey("escrow-void-" + reference)

	logger.ExternalServiceCall("stripe", "payment_intent.cancel", "reference", reference)
	_, err := g.intents.Cancel(reference, params)
	logger.ExternalServiceResult("stripe", "payment_intent.cancel", err, "reference", reference)
	if err != nil {
		if g.alreadyIn(ctx, reference, err, stripe.PaymentIntentStatusCanceled) {
			return nil
		}
		return translateStripeError(err)
	}
	return nil
}

// alreadyIn reports whether a settlement Stripe rejected as out of state had
// in fact already happened, which is the case when a retry follows a lost
// database write.
func (g *StripeGateway) alreadyIn(ctx context.Context, reference string, err error, want stripe.PaymentIntentStatus) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) || stripeErr.Code != stripe.ErrorCodePaymentIntentUnexpectedState {
		return false
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	intent, getErr := g.intents.Get(reference, params)
	if getErr != nil || intent.Status != want {
		return false
	}
	logger.WarnContext(ctx, "payment intent was already settled", "reference", reference, "status", intent.Status)
	return true
}

func (g *StripeGateway) abandon(ctx context.Context, id string) {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx
	if _, err := g.intents.Cancel(id, params); err != nil {
		logger.WarnContext(ctx, "failed to cancel unauthorized payment intent", "reference", id, "error", err)
	}
}

func translateStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard:
			return fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
		case stripe.ErrorTypeInvalidRequest:
			if stripeErr.Code == stripe.ErrorCodeResourceMissing {
				return fmt.Errorf("%w: %s", ErrUnknownReference, stripeErr.Msg)
			}
		}
		return fmt.Errorf("stripe %s: %s", stripeErr.Type, stripeErr.Msg)
	}
	return fmt.Errorf("stripe request failed: %w", err)
}

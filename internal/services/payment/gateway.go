// Package payment provides the gateways that authorize, capture and void
// escrowed rental payments.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrDeclined         = errors.New("payment declined")
	ErrUnknownReference = errors.New("unknown payment reference")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrNoPaymentMethod  = errors.New("a payment method is required")
	ErrNotAuthorized    = errors.New("payment was not authorized")
)

const (
	ProviderStripe    = "stripe"
	ProviderSimulated = "simulated"
)

// Authorization asks the gateway to place a hold on the renter's funds.
type Authorization struct {
	EscrowID      string
	RentalID      string
	RenterID      uint
	Amount        decimal.Decimal
	PaymentMethod string
}

// Gateway moves money for an escrow: Authorize places the hold and returns
// a provider reference, Capture pays it out, Void releases it back. Capture
// and Void succeed when repeated on a hold already in that state.
type Gateway interface {
	Authorize(ctx context.Context, auth Authorization) (string, error)
	Capture(ctx context.Context, reference string) error
	Void(ctx context.Context, reference string) error
	Provider() string
}

type Config struct {
	Provider        string
	StripeSecretKey string
	Currency        string
	Production      bool
}

// NewGateway picks the gateway named by cfg.Provider. The simulated gateway
// is refused in production.
func NewGateway(cfg Config) (Gateway, error) {
	switch cfg.Provider {
	case ProviderStripe:
		if cfg.StripeSecretKey == "" {
			return nil, errors.New("a stripe secret key is required for the stripe provider")
		}
		return NewStripeGateway(cfg.StripeSecretKey, cfg.Currency), nil
	case ProviderSimulated, "":
		if cfg.Production {
			return nil, errors.New("the simulated payment provider cannot run in production")
		}
		return NewSimulatedGateway(), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

// minorUnits converts a rupee amount to paise.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

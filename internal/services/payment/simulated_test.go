package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGateway_Lifecycle(t *testing.T) {
	ctx := context.Background()
	g := NewSimulatedGateway()

	ref, err := g.Authorize(ctx, Authorization{EscrowID: "e1", Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, "authorized", g.Status(ref))

	require.NoError(t, g.Capture(ctx, ref))
	assert.Equal(t, "captured", g.Status(ref))
	require.NoError(t, g.Capture(ctx, ref), "repeating a capture is a no-op")
	assert.Equal(t, "captured", g.Status(ref))

	assert.Error(t, g.Void(ctx, ref), "a captured hold cannot be voided")
	assert.ErrorIs(t, g.Capture(ctx, "sim_missing"), ErrUnknownReference)
}

func TestSimulatedGateway_Failures(t *testing.T) {
	ctx := context.Background()
	g := NewSimulatedGateway()
	boom := errors.New("network timeout")

	g.FailNext("authorize", boom)
	_, err := g.Authorize(ctx, Authorization{Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, boom)

	ref, err := g.Authorize(ctx, Authorization{Amount: decimal.NewFromInt(10)})
	require.NoError(t, err, "failure applies to one call only")

	g.FailNext("void", boom)
	assert.ErrorIs(t, g.Void(ctx, ref), boom)
	assert.Equal(t, "authorized", g.Status(ref))

	g.SetDeclineAll(true)
	_, err = g.Authorize(ctx, Authorization{Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, ErrDeclined)

	g.SetDeclineAll(false)
	_, err = g.Authorize(ctx, Authorization{Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(105050), minorUnits(decimal.RequireFromString("1050.50")))
	assert.Equal(t, int64(1), minorUnits(decimal.RequireFromString("0.005")))
}

func TestNewGateway(t *testing.T) {
	g, err := NewGateway(Config{Provider: ProviderSimulated})
	require.NoError(t, err)
	assert.Equal(t, ProviderSimulated, g.Provider())

	g, err = NewGateway(Config{Provider: ProviderStripe, StripeSecretKey: "sk_test_123"})
	require.NoError(t, err)
	assert.Equal(t, ProviderStripe, g.Provider())

	_, err = NewGateway(Config{Provider: ProviderStripe})
	assert.Error(t, err)

	_, err = NewGateway(Config{Provider: ProviderSimulated, Production: true})
	assert.Error(t, err)

	_, err = NewGateway(Config{Provider: "paypal"})
	assert.ErrorContains(t, err, "paypal")
}

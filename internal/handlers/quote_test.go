package handlers

import (
	"context"
	"testing"

	"campusrent/internal/config"
	"campusrent/internal/models"
	"campusrent/internal/repositories"
	"campusrent/internal/services/deposit"
	"campusrent/internal/services/fee"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetRentalHistory(ctx context.Context, userID uint) (models.RentalHistory, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.RentalHistory), args.Error(1)
}

func (m *MockUserLookup) GetUserProfile(ctx context.Context, userID uint) (models.UserProfile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UserProfile), args.Error(1)
}

func newQuoteApp(users *MockUserLookup) *fiber.App {
	policy := config.DefaultPricingPolicy()
	h := NewQuoteHandler(
		fee.NewService(fee.NewCalculator(policy.Fee), users),
		deposit.NewService(deposit.NewCalculator(policy.Deposit), users),
	)

	app := fiber.New()
	app.Post("/fees/quote", h.QuoteFee)
	app.Post("/deposits/quote", h.QuoteDeposit)
	return app
}

func TestQuoteFee(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		setupMock  func(*MockUserLookup)
		wantStatus int
		wantFee    string
		wantCode   string
	}{
		{
			name: "loyal renter by id",
			body: map[string]interface{}{"rentalAmount": "1000", "renterId": 7},
			setupMock: func(m *MockUserLookup) {
				m.On("GetRentalHistory", mock.Anything, uint(7)).Return(models.RentalHistory{CompletedRentals: 12}, nil)
			},
			wantStatus: fiber.StatusOK,
			wantFee:    "30",
		},
		{
			name:       "explicit history",
			body:       map[string]interface{}{"rentalAmount": 1000, "completedRentals": 2},
			setupMock:  func(m *MockUserLookup) {},
			wantStatus: fiber.StatusOK,
			wantFee:    "50",
		},
		{
			name: "unknown renter",
			body: map[string]interface{}{"rentalAmount": "1000", "renterId": 99},
			setupMock: func(m *MockUserLookup) {
				m.On("GetRentalHistory", mock.Anything, uint(99)).Return(models.RentalHistory{}, repositories.ErrUserNotFound)
			},
			wantStatus: fiber.StatusNotFound,
			wantCode:   "RENTER_NOT_FOUND",
		},
		{
			name:       "negative amount",
			body:       map[string]interface{}{"rentalAmount": "-1", "completedRentals": 0},
			setupMock:  func(m *MockUserLookup) {},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "INVALID_AMOUNT",
		},
		{
			name:       "missing amount",
			body:       map[string]interface{}{"completedRentals": 0},
			setupMock:  func(m *MockUserLookup) {},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "no renter or history",
			body:       map[string]interface{}{"rentalAmount": "100"},
			setupMock:  func(m *MockUserLookup) {},
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserLookup)
			tt.setupMock(users)

			status, env := doJSON(t, newQuoteApp(users), fiber.MethodPost, "/fees/quote", tt.body)
			assert.Equal(t, tt.wantStatus, status, env.Error)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, env.Code)
			}
			if tt.wantFee != "" {
				var quote models.FeeCalculation
				decodeData(t, env, &quote)
				assert.True(t, quote.CommissionFee.Equal(decimal.RequireFromString(tt.wantFee)), "fee %s", quote.CommissionFee)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestQuoteDeposit_ExplicitProfile(t *testing.T) {
	users := new(MockUserLookup)
	body := map[string]interface{}{
		"userProfile": map[string]interface{}{
			"trustScore":        850,
			"completedRentals":  12,
			"verificationLevel": "high",
		},
		"itemDetails": map[string]interface{}{
			"value":     "40000",
			"category":  "electronics",
			"riskLevel": "medium",
		},
		"baseDeposit": "5000",
	}

	status, env := doJSON(t, newQuoteApp(users), fiber.MethodPost, "/deposits/quote", body)
	require.Equal(t, fiber.StatusOK, status, env.Error)

	var quote models.DepositBreakdown
	decodeData(t, env, &quote)
	assert.True(t, quote.FinalDeposit.Equal(decimal.NewFromInt(1750)), "final %s", quote.FinalDeposit)
	assert.Equal(t, int64(65), quote.SavingsPercent)
	assert.Len(t, quote.Adjustments, 4)
	users.AssertNotCalled(t, "GetUserProfile", mock.Anything, mock.Anything)
}

func TestQuoteDeposit_StoredProfile(t *testing.T) {
	users := new(MockUserLookup)
	users.On("GetUserProfile", mock.Anything, uint(3)).Return(models.UserProfile{
		TrustScore:        100,
		VerificationLevel: models.VerificationLow,
		DamageHistory:     3,
	}, nil)

	body := map[string]interface{}{
		"renterId":    3,
		"itemDetails": map[string]interface{}{"value": "40000", "category": "electronics", "riskLevel": "high"},
		"baseDeposit": 5000,
	}

	status, env := doJSON(t, newQuoteApp(users), fiber.MethodPost, "/deposits/quote", body)
	require.Equal(t, fiber.StatusOK, status, env.Error)

	var quote models.DepositBreakdown
	decodeData(t, env, &quote)
	assert.True(t, quote.FinalDeposit.Equal(decimal.NewFromInt(10500)), "final %s", quote.FinalDeposit)
	users.AssertExpectations(t)
}

func TestQuoteDeposit_RejectsBadInput(t *testing.T) {
	app := newQuoteApp(new(MockUserLookup))

	status, _ := doJSON(t, app, fiber.MethodPost, "/deposits/quote", map[string]interface{}{
		"userProfile": map[string]interface{}{"trustScore": 500, "verificationLevel": "low"},
		"itemDetails": map[string]interface{}{"category": "books", "riskLevel": "low"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env := doJSON(t, app, fiber.MethodPost, "/deposits/quote", map[string]interface{}{
		"userProfile": map[string]interface{}{"trustScore": 1200, "verificationLevel": "low"},
		"itemDetails": map[string]interface{}{"category": "books", "riskLevel": "low"},
		"baseDeposit": "100",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, env.Code)
}

package fee

import (
	"context"
	"errors"
	"fmt"

	"campusrent/internal/models"
	"campusrent/internal/repositories"

	"github.com/shopspring/decimal"
)

type service struct {
	calculator *Calculator
	history    HistoryProvider
}

// NewService creates a fee quote service
func NewService(calculator *Calculator, history HistoryProvider) Service {
	if calculator == nil {
		panic("calculator is required")
	}
	if history == nil {
		panic("history provider is required")
	}
	return &service{calculator: calculator, history: history}
}

func (s *service) Quote(ctx context.Context, renterID uint, rentalAmount decimal.Decimal) (*models.FeeCalculation, error) {
	if rentalAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	history, err := s.history.GetRentalHistory(ctx, renterID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrRenterNotFound
		}
		return nil, fmt.Errorf("failed to load rental history: %w", err)
	}

	return s.calculator.CalculateTransactionFee(rentalAmount, history)
}

func (s *service) QuoteForHistory(_ context.Context, history models.RentalHistory, rentalAmount decimal.Decimal) (*models.FeeCalculation, error) {
	return s.calculator.CalculateTransactionFee(rentalAmount, history)
}

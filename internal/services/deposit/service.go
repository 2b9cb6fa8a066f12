package deposit

import (
	"context"
	"errors"
	"fmt"

	"campusrent/internal/models"
	"campusrent/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service quotes deposits either from an explicit profile or from the
// profile store.
type Service interface {
	Quote(ctx context.Context, profile models.UserProfile, item models.ItemDetails, baseDeposit decimal.Decimal) (*models.DepositBreakdown, error)
	QuoteForRenter(ctx context.Context, renterID uint, item models.ItemDetails, baseDeposit decimal.Decimal) (*models.DepositBreakdown, error)
}

// ProfileProvider supplies a renter's reputation profile.
type ProfileProvider interface {
	GetUserProfile(ctx context.Context, userID uint) (models.UserProfile, error)
}

type service struct {
	calculator *Calculator
	profiles   ProfileProvider
}

func NewService(calculator *Calculator, profiles ProfileProvider) Service {
	if calculator == nil {
		panic("calculator is required")
	}
	return &service{calculator: calculator, profiles: profiles}
}

func (s *service) Quote(_ context.Context, profile models.UserProfile, item models.ItemDetails, baseDeposit decimal.Decimal) (*models.DepositBreakdown, error) {
	return s.calculator.CalculateDeposit(profile, item, baseDeposit)
}

func (s *service) QuoteForRenter(ctx context.Context, renterID uint, item models.ItemDetails, baseDeposit decimal.Decimal) (*models.DepositBreakdown, error) {
	if s.profiles == nil {
		return nil, errors.New("profile lookup is not configured")
	}

	profile, err := s.profiles.GetUserProfile(ctx, renterID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrRenterNotFound
		}
		return nil, fmt.Errorf("failed to load renter profile: %w", err)
	}

	return s.calculator.CalculateDeposit(profile, item, baseDeposit)
}

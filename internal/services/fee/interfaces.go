package fee

import (
	"context"

	"campusrent/internal/models"

	"github.com/shopspring/decimal"
)

// Service quotes commissions either for a known renter or for an explicit
// rental history.
type Service interface {
	Quote(ctx context.Context, renterID uint, rentalAmount decimal.Decimal) (*models.FeeCalculation, error)
	QuoteForHistory(ctx context.Context, history models.RentalHistory, rentalAmount decimal.Decimal) (*models.FeeCalculation, error)
}

// HistoryProvider supplies the renter's completed-rental count.
type HistoryProvider interface {
	GetRentalHistory(ctx context.Context, userID uint) (models.RentalHistory, error)
}

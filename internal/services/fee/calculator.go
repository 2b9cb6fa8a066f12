package fee

import (
	"campusrent/internal/config"
	"campusrent/internal/models"

	"github.com/shopspring/decimal"
)

// currencyPlaces is the smallest currency unit (paise).
const currencyPlaces = 2

type Calculator struct {
	policy config.FeePolicy
}

func NewCalculator(policy config.FeePolicy) *Calculator {
	return &Calculator{policy: policy}
}

// CalculateTransactionFee quotes the commission for rentalAmount. It is pure:
// the same inputs always produce the same quote.
func (c *Calculator) CalculateTransactionFee(rentalAmount decimal.Decimal, history models.RentalHistory) (*models.FeeCalculation, error) {
	if rentalAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if history.CompletedRentals < 0 {
		return nil, ErrInvalidHistory
	}

	loyal := history.CompletedRentals >= c.policy.LoyaltyThreshold
	rate := c.policy.StandardRate
	if loyal {
		rate = c.policy.LoyaltyRate
	}

	fee, minApplied, maxCapped := c.clamp(rentalAmount.Mul(rate).Round(currencyPlaces), rentalAmount)

	calc := &models.FeeCalculation{
		RentalAmount:      rentalAmount,
		CommissionRate:    rate,
		CommissionFee:     fee,
		VendorAmount:      rentalAmount.Sub(fee),
		IsLoyaltyDiscount: loyal,
		FeeBreakdown: models.FeeBreakdown{
			MinimumFeeApplied: minApplied,
			MaximumFeeCapped:  maxCapped,
		},
	}

	if loyal {
		standardFee, _, _ := c.clamp(rentalAmount.Mul(c.policy.StandardRate).Round(currencyPlaces), rentalAmount)
		saved := standardFee.Sub(fee)
		calc.FeeBreakdown.LoyaltyDiscount = &saved
	}

	return calc, nil
}

// clamp bounds fee to [min(amount, MinimumFee), min(amount, MaximumFee)].
func (c *Calculator) clamp(fee, amount decimal.Decimal) (decimal.Decimal, bool, bool) {
	lower := decimal.Min(amount, c.policy.MinimumFee)
	upper := decimal.Min(amount, c.policy.MaximumFee)

	switch {
	case fee.LessThan(lower):
		return lower, true, false
	case fee.GreaterThan(upper):
		return upper, false, true
	default:
		return fee, false, false
	}
}

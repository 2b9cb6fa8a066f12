// Package deposit computes a security deposit from the renter's reputation
// and the item's risk profile.
package deposit

import (
	"fmt"
	"strings"

	"campusrent/internal/config"
	"campusrent/internal/models"

	"github.com/shopspring/decimal"
)

const (
	MinTrustScore = 0
	MaxTrustScore = 1000

	currencyPlaces = 2
)

var hundred = decimal.NewFromInt(100)

type Calculator struct {
	policy config.DepositPolicy
}

// NewCalculator expects policy.TrustBands ordered by descending MinScore, as
// config.LoadPricingPolicy returns them.
func NewCalculator(policy config.DepositPolicy) *Calculator {
	return &Calculator{policy: policy}
}

// CalculateDeposit applies the adjustments in a fixed order, each relative to
// baseDeposit, and then enforces the floor. The result is advisory.
func (c *Calculator) CalculateDeposit(profile models.UserProfile, item models.ItemDetails, baseDeposit decimal.Decimal) (*models.DepositBreakdown, error) {
	if err := validate(profile, item, baseDeposit); err != nil {
		return nil, err
	}

	out := &models.DepositBreakdown{
		BaseDeposit: baseDeposit,
		Adjustments: []models.DepositAdjustment{},
	}
	final := baseDeposit

	add := func(kind string, rate decimal.Decimal, description string) {
		amount := baseDeposit.Mul(rate).Round(currencyPlaces)
		if amount.IsZero() {
			return
		}
		out.Adjustments = append(out.Adjustments, models.DepositAdjustment{
			Type:        kind,
			Amount:      amount,
			Description: description,
		})
		final = final.Add(amount)
	}

	multiplier := c.trustMultiplier(profile.TrustScore)
	add(models.AdjustmentTrustScore, multiplier.Sub(decimal.NewFromInt(1)),
		fmt.Sprintf("Trust score %d: %sx deposit multiplier", profile.TrustScore, multiplier.String()))

	if discount, ok := c.policy.VerificationDiscounts[string(profile.VerificationLevel)]; ok && discount.IsPositive() {
		add(models.AdjustmentVerification, discount.Neg(),
			fmt.Sprintf("%s verification: %s off", titleCase(string(profile.VerificationLevel)), percent(discount)))
	}

	if profile.CompletedRentals >= c.policy.LoyaltyThreshold && c.policy.LoyaltyDiscount.IsPositive() {
		add(models.AdjustmentLoyalty, c.policy.LoyaltyDiscount.Neg(),
			fmt.Sprintf("Loyalty: %d completed rentals, %s off", profile.CompletedRentals, percent(c.policy.LoyaltyDiscount)))
	}

	categoryRate := c.policy.CategoryAdjustments[string(item.Category)]
	riskRate := c.policy.RiskAdjustments[string(item.RiskLevel)]
	add(models.AdjustmentRisk, categoryRate.Add(riskRate),
		fmt.Sprintf("%s (%s) with %s risk (%s)", titleCase(string(item.Category)), signedPercent(categoryRate),
			item.RiskLevel, signedPercent(riskRate)))

	if profile.DamageHistory > 0 {
		add(models.AdjustmentDamage, c.policy.DamagePenaltyRate.Mul(decimal.NewFromInt(int64(profile.DamageHistory))),
			fmt.Sprintf("%d prior damage incident(s), %s each", profile.DamageHistory, signedPercent(c.policy.DamagePenaltyRate)))
	}

	if profile.LateReturns > 0 && c.policy.LateReturnPenaltyRate.IsPositive() {
		add(models.AdjustmentLateReturns, c.policy.LateReturnPenaltyRate.Mul(decimal.NewFromInt(int64(profile.LateReturns))),
			fmt.Sprintf("%d late return(s), %s each", profile.LateReturns, signedPercent(c.policy.LateReturnPenaltyRate)))
	}

	// Rounded up so the floor never drops below the exact ratio.
	floor := baseDeposit.Mul(c.policy.FloorRatio).RoundCeil(currencyPlaces)
	if final.LessThan(floor) {
		final = floor
		out.FloorApplied = true
	}

	out.FinalDeposit = final
	if baseDeposit.IsPositive() {
		out.SavingsPercent = roundHalfUp(baseDeposit.Sub(final).Div(baseDeposit).Mul(hundred))
	}

	return out, nil
}

func (c *Calculator) trustMultiplier(score int) decimal.Decimal {
	for _, band := range c.policy.TrustBands {
		if score >= band.MinScore {
			return band.Multiplier
		}
	}
	return decimal.NewFromInt(1)
}

func validate(profile models.UserProfile, item models.ItemDetails, baseDeposit decimal.Decimal) error {
	if baseDeposit.IsNegative() {
		return ErrInvalidBaseDeposit
	}
	if !baseDeposit.Equal(baseDeposit.Round(currencyPlaces)) {
		return ErrInvalidBaseDeposit
	}
	if profile.TrustScore < MinTrustScore || profile.TrustScore > MaxTrustScore {
		return ErrInvalidTrustScore
	}
	if !profile.VerificationLevel.Valid() {
		return fmt.Errorf("%w: unknown verification level %q", ErrInvalidProfile, profile.VerificationLevel)
	}
	if profile.CompletedRentals < 0 || profile.DamageHistory < 0 || profile.LateReturns < 0 {
		return fmt.Errorf("%w: counters must not be negative", ErrInvalidProfile)
	}
	if !item.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidItem, item.Category)
	}
	if !item.RiskLevel.Valid() {
		return fmt.Errorf("%w: unknown risk level %q", ErrInvalidItem, item.RiskLevel)
	}
	if item.Value.IsNegative() {
		return fmt.Errorf("%w: value must not be negative", ErrInvalidItem)
	}
	return nil
}

// roundHalfUp rounds ties toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v decimal.Decimal) int64 {
	return v.Add(decimal.NewFromFloat(0.5)).Floor().IntPart()
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(hundred).String() + "%"
}

func signedPercent(rate decimal.Decimal) string {
	if rate.IsNegative() {
		return percent(rate)
	}
	return "+" + percent(rate)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

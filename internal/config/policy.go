package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PricingPolicy groups every tunable fee and deposit constant. The defaults
// mirror what the marketplace advertises to renters ("3% Commission Rate",
// "10+ completed rentals"); a YAML file can override any of them.
type PricingPolicy struct {
	Fee     FeePolicy     `yaml:"fee"`
	Deposit DepositPolicy `yaml:"deposit"`
}

// FeePolicy configures the commission calculation.
type FeePolicy struct {
	StandardRate     decimal.Decimal `yaml:"standard_rate"`
	LoyaltyRate      decimal.Decimal `yaml:"loyalty_rate"`
	LoyaltyThreshold int             `yaml:"loyalty_threshold"`
	MinimumFee       decimal.Decimal `yaml:"minimum_fee"`
	MaximumFee       decimal.Decimal `yaml:"maximum_fee"`
}

// TrustBand maps every trust score >= MinScore to a deposit multiplier.
type TrustBand struct {
	MinScore   int             `yaml:"min_score"`
	Multiplier decimal.Decimal `yaml:"multiplier"`
}

// DepositPolicy configures the dynamic deposit calculation. Rates are
// fractions of the base deposit.
type DepositPolicy struct {
	TrustBands            []TrustBand                `yaml:"trust_bands"`
	VerificationDiscounts map[string]decimal.Decimal `yaml:"verification_discounts"`
	LoyaltyThreshold      int                        `yaml:"loyalty_threshold"`
	LoyaltyDiscount       decimal.Decimal            `yaml:"loyalty_discount"`
	CategoryAdjustments   map[string]decimal.Decimal `yaml:"category_adjustments"`
	RiskAdjustments       map[string]decimal.Decimal `yaml:"risk_adjustments"`
	DamagePenaltyRate     decimal.Decimal            `yaml:"damage_penalty_rate"`
	LateReturnPenaltyRate decimal.Decimal            `yaml:"late_return_penalty_rate"`
	FloorRatio            decimal.Decimal            `yaml:"floor_ratio"`
}

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultPricingPolicy returns the launch pricing.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		Fee: FeePolicy{
			StandardRate:     pct("0.05"),
			LoyaltyRate:      pct("0.03"),
			LoyaltyThreshold: 10,
			MinimumFee:       pct("10"),
			MaximumFee:       pct("100"),
		},
		Deposit: DepositPolicy{
			TrustBands: []TrustBand{
				{MinScore: 800, Multiplier: pct("0.5")},
				{MinScore: 700, Multiplier: pct("0.7")},
				{MinScore: 600, Multiplier: pct("0.9")},
				{MinScore: 400, Multiplier: pct("1.0")},
				{MinScore: 300, Multiplier: pct("1.3")},
				{MinScore: 0, Multiplier: pct("1.5")},
			},
			VerificationDiscounts: map[string]decimal.Decimal{
				"high":   pct("0.20"),
				"medium": pct("0.10"),
				"low":    decimal.Zero,
			},
			LoyaltyThreshold: 10,
			LoyaltyDiscount:  pct("0.15"),
			CategoryAdjustments: map[string]decimal.Decimal{
				"electronics": pct("0.10"),
				"furniture":   pct("0.05"),
				"books":       pct("-0.10"),
				"clothing":    pct("-0.05"),
			},
			RiskAdjustments: map[string]decimal.Decimal{
				"high":   pct("0.20"),
				"medium": pct("0.10"),
				"low":    decimal.Zero,
			},
			DamagePenaltyRate:     pct("0.10"),
			LateReturnPenaltyRate: decimal.Zero,
			FloorRatio:            pct("0.3"),
		},
	}
}

// LoadPricingPolicy reads a YAML policy file on top of the defaults. An empty
// path returns the defaults unchanged.
func LoadPricingPolicy(path string) (PricingPolicy, error) {
	policy := DefaultPricingPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PricingPolicy{}, fmt.Errorf("failed to read pricing policy: %w", err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return PricingPolicy{}, fmt.Errorf("failed to parse pricing policy: %w", err)
	}

	if err := policy.Validate(); err != nil {
		return PricingPolicy{}, fmt.Errorf("invalid pricing policy: %w", err)
	}

	// Bands are evaluated highest first.
	sort.SliceStable(policy.Deposit.TrustBands, func(i, j int) bool {
		return policy.Deposit.TrustBands[i].MinScore > policy.Deposit.TrustBands[j].MinScore
	})

	return policy, nil
}

// Validate checks the policy for values the calculators cannot work with.
func (p PricingPolicy) Validate() error {
	one := decimal.NewFromInt(1)

	f := p.Fee
	if f.StandardRate.IsNegative() || f.StandardRate.GreaterThan(one) {
		return errors.New("fee.standard_rate must be between 0 and 1")
	}
	if f.LoyaltyRate.IsNegative() || f.LoyaltyRate.GreaterThan(f.StandardRate) {
		return errors.New("fee.loyalty_rate must be between 0 and fee.standard_rate")
	}
	if f.LoyaltyThreshold < 0 {
		return errors.New("fee.loyalty_threshold must not be negative")
	}
	if f.MinimumFee.IsNegative() || f.MaximumFee.LessThan(f.MinimumFee) {
		return errors.New("fee.minimum_fee must be >= 0 and <= fee.maximum_fee")
	}

	d := p.Deposit
	if len(d.TrustBands) == 0 {
		return errors.New("deposit.trust_bands must not be empty")
	}
	hasZeroBand := false
	for _, b := range d.TrustBands {
		if b.Multiplier.IsNegative() {
			return fmt.Errorf("deposit.trust_bands: negative multiplier for min_score %d", b.MinScore)
		}
		if b.MinScore == 0 {
			hasZeroBand = true
		}
	}
	if !hasZeroBand {
		return errors.New("deposit.trust_bands must include a band with min_score 0")
	}
	for level, v := range d.VerificationDiscounts {
		if v.IsNegative() || v.GreaterThan(one) {
			return fmt.Errorf("deposit.verification_discounts.%s must be between 0 and 1", level)
		}
	}
	if d.LoyaltyThreshold < 0 || d.LoyaltyDiscount.IsNegative() {
		return errors.New("deposit loyalty settings must not be negative")
	}
	if d.DamagePenaltyRate.IsNegative() || d.LateReturnPenaltyRate.IsNegative() {
		return errors.New("deposit penalty rates must not be negative")
	}
	if d.FloorRatio.IsNegative() || d.FloorRatio.GreaterThan(one) {
		return errors.New("deposit.floor_ratio must be between 0 and 1")
	}
	return nil
}

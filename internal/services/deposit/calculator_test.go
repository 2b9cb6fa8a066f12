package deposit

import (
	"testing"

	"campusrent/internal/config"
	"campusrent/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCalculator() *Calculator {
	return NewCalculator(config.DefaultPricingPolicy().Deposit)
}

func adjustmentTypes(b *models.DepositBreakdown) []string {
	types := make([]string, 0, len(b.Adjustments))
	for _, a := range b.Adjustments {
		types = append(types, a.Type)
	}
	return types
}

func adjustmentSum(b *models.DepositBreakdown) decimal.Decimal {
	sum := b.BaseDeposit
	for _, a := range b.Adjustments {
		sum = sum.Add(a.Amount)
	}
	return sum
}

func TestCalculateDeposit_TrustedRenterStacksDiscounts(t *testing.T) {
	profile := models.UserProfile{
		TrustScore:        850,
		CompletedRentals:  12,
		VerificationLevel: models.VerificationHigh,
	}
	item := models.ItemDetails{Value: d("40000"), Category: models.CategoryElectronics, RiskLevel: models.RiskMedium}

	got, err := newCalculator().CalculateDeposit(profile, item, d("5000"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		models.AdjustmentTrustScore,
		models.AdjustmentVerification,
		models.AdjustmentLoyalty,
		models.AdjustmentRisk,
	}, adjustmentTypes(got))
	assert.True(t, got.Adjustments[0].Amount.Equal(d("-2500")))
	assert.True(t, got.Adjustments[1].Amount.Equal(d("-1000")))
	assert.True(t, got.Adjustments[2].Amount.Equal(d("-750")))
	assert.True(t, got.Adjustments[3].Amount.Equal(d("1000")))

	assert.True(t, got.FinalDeposit.Equal(d("1750")), "final %s", got.FinalDeposit)
	assert.False(t, got.FloorApplied)
	assert.Equal(t, int64(65), got.SavingsPercent)
	assert.True(t, adjustmentSum(got).Equal(got.FinalDeposit))
	assert.Equal(t, "Trust score 850: 0.5x deposit multiplier", got.Adjustments[0].Description)
	assert.Equal(t, "High verification: 20% off", got.Adjustments[1].Description)
}

func TestCalculateDeposit_RiskyRenterStacksSurcharges(t *testing.T) {
	profile := models.UserProfile{
		TrustScore:        100,
		VerificationLevel: models.VerificationLow,
		DamageHistory:     3,
	}
	item := models.ItemDetails{Value: d("40000"), Category: models.CategoryElectronics, RiskLevel: models.RiskHigh}

	got, err := newCalculator().CalculateDeposit(profile, item, d("5000"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		models.AdjustmentTrustScore,
		models.AdjustmentRisk,
		models.AdjustmentDamage,
	}, adjustmentTypes(got))
	assert.True(t, got.Adjustments[0].Amount.Equal(d("2500")))
	assert.True(t, got.Adjustments[1].Amount.Equal(d("1500")))
	assert.True(t, got.Adjustments[2].Amount.Equal(d("1500")))
	assert.True(t, got.FinalDeposit.Equal(d("10500")), "final %s", got.FinalDeposit)
	assert.Equal(t, int64(-110), got.SavingsPercent)
	assert.True(t, got.FinalDeposit.GreaterThanOrEqual(d("1500")))
	assert.Equal(t, "Electronics (+10%) with high risk (+20%)", got.Adjustments[1].Description)
}

func TestCalculateDeposit_FloorIsAppliedLast(t *testing.T) {
	profile := models.UserProfile{
		TrustScore:        900,
		CompletedRentals:  15,
		VerificationLevel: models.VerificationHigh,
	}
	item := models.ItemDetails{Value: d("800"), Category: models.CategoryBooks, RiskLevel: models.RiskLow}

	got, err := newCalculator().CalculateDeposit(profile, item, d("5000"))
	require.NoError(t, err)

	naive := adjustmentSum(got)
	assert.True(t, naive.Equal(d("250")), "naive %s", naive)
	assert.True(t, got.FloorApplied)
	assert.True(t, got.FinalDeposit.Equal(d("1500")), "final %s", got.FinalDeposit)
	assert.True(t, got.FinalDeposit.GreaterThan(naive))
	assert.Equal(t, int64(70), got.SavingsPercent)
}

func TestCalculateDeposit_TrustBands(t *testing.T) {
	tests := []struct {
		score      int
		wantAmount string // trust adjustment on a base of 1000; "" means none recorded
	}{
		{1000, "-500"},
		{800, "-500"},
		{799, "-300"},
		{700, "-300"},
		{699, "-100"},
		{600, "-100"},
		{599, ""},
		{400, ""},
		{399, "300"},
		{300, "300"},
		{299, "500"},
		{0, "500"},
	}

	calc := newCalculator()
	item := models.ItemDetails{Category: models.CategoryFurniture, RiskLevel: models.RiskLow}
	for _, tt := range tests {
		profile := models.UserProfile{TrustScore: tt.score, VerificationLevel: models.VerificationLow}
		got, err := calc.CalculateDeposit(profile, item, d("1000"))
		require.NoError(t, err, "score %d", tt.score)

		var trust *models.DepositAdjustment
		for i := range got.Adjustments {
			if got.Adjustments[i].Type == models.AdjustmentTrustScore {
				trust = &got.Adjustments[i]
			}
		}
		if tt.wantAmount == "" {
			assert.Nil(t, trust, "score %d", tt.score)
			continue
		}
		require.NotNil(t, trust, "score %d", tt.score)
		assert.True(t, trust.Amount.Equal(d(tt.wantAmount)), "score %d: got %s", tt.score, trust.Amount)
	}
}

func TestCalculateDeposit_VerificationNeverIncreases(t *testing.T) {
	calc := newCalculator()
	item := models.ItemDetails{Category: models.CategoryFurniture, RiskLevel: models.RiskLow}

	for _, level := range []models.VerificationLevel{models.VerificationLow, models.VerificationMedium, models.VerificationHigh} {
		got, err := calc.CalculateDeposit(models.UserProfile{TrustScore: 500, VerificationLevel: level}, item, d("1000"))
		require.NoError(t, err)
		for _, a := range got.Adjustments {
			if a.Type == models.AdjustmentVerification {
				assert.True(t, a.Amount.IsNegative(), "level %s", level)
			}
		}
	}
}

func TestCalculateDeposit_FloorHoldsForAllInputs(t *testing.T) {
	calc := newCalculator()
	base := d("5000")
	floor := d("1500")

	levels := []models.VerificationLevel{models.VerificationLow, models.VerificationMedium, models.VerificationHigh}
	categories := []models.ItemCategory{models.CategoryElectronics, models.CategoryBooks, models.CategoryFurniture, models.CategoryClothing}
	risks := []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh}

	for score := 0; score <= 1000; score += 50 {
		for _, level := range levels {
			for _, category := range categories {
				for _, risk := range risks {
					for _, damage := range []int{0, 1, 10} {
						for _, rentals := range []int{0, 10} {
							profile := models.UserProfile{
								TrustScore:        score,
								CompletedRentals:  rentals,
								VerificationLevel: level,
								DamageHistory:     damage,
							}
							item := models.ItemDetails{Category: category, RiskLevel: risk}

							got, err := calc.CalculateDeposit(profile, item, base)
							require.NoError(t, err)
							require.True(t, got.FinalDeposit.GreaterThanOrEqual(floor), "%+v %+v -> %s", profile, item, got.FinalDeposit)

							naive := adjustmentSum(got)
							if got.FloorApplied {
								require.True(t, naive.LessThan(floor))
							} else {
								require.True(t, naive.Equal(got.FinalDeposit))
							}
						}
					}
				}
			}
		}
	}
}

func TestCalculateDeposit_FloorHoldsForSmallBases(t *testing.T) {
	calc := newCalculator()
	trusted := models.UserProfile{
		TrustScore:        900,
		CompletedRentals:  15,
		VerificationLevel: models.VerificationHigh,
	}
	item := models.ItemDetails{Category: models.CategoryBooks, RiskLevel: models.RiskLow}

	for _, raw := range []string{"0.01", "0.02", "0.05", "0.10", "0.33", "1.01", "7.77", "99.99", "333.33"} {
		t.Run(raw, func(t *testing.T) {
			base := d(raw)
			got, err := calc.CalculateDeposit(trusted, item, base)
			require.NoError(t, err)

			exact := base.Mul(d("0.3"))
			assert.True(t, got.FinalDeposit.GreaterThanOrEqual(exact), "final %s below %s", got.FinalDeposit, exact)
			assert.True(t, got.FinalDeposit.Equal(got.FinalDeposit.Round(2)), "final %s", got.FinalDeposit)
			assert.True(t, got.FinalDeposit.IsPositive())
		})
	}
}

func TestCalculateDeposit_SavingsPercentRoundsHalfUp(t *testing.T) {
	profile := models.UserProfile{TrustScore: 500, VerificationLevel: models.VerificationLow}
	item := models.ItemDetails{Category: models.CategoryFurniture, RiskLevel: models.RiskLow}

	tests := []struct {
		rate        string
		wantFinal   string
		wantSavings int64
	}{
		{"0.025", "1025", -2},
		{"-0.025", "975", 3},
		{"0.024", "1024", -2},
		{"0.026", "1026", -3},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			policy := config.DefaultPricingPolicy().Deposit
			policy.CategoryAdjustments["furniture"] = d(tt.rate)

			got, err := NewCalculator(policy).CalculateDeposit(profile, item, d("1000"))
			require.NoError(t, err)
			assert.True(t, got.FinalDeposit.Equal(d(tt.wantFinal)), "final %s", got.FinalDeposit)
			assert.Equal(t, tt.wantSavings, got.SavingsPercent)
		})
	}
}

func TestCalculateDeposit_ZeroBase(t *testing.T) {
	profile := models.UserProfile{TrustScore: 100, VerificationLevel: models.VerificationLow, DamageHistory: 2}
	item := models.ItemDetails{Category: models.CategoryElectronics, RiskLevel: models.RiskHigh}

	got, err := newCalculator().CalculateDeposit(profile, item, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.FinalDeposit.IsZero())
	assert.Empty(t, got.Adjustments)
	assert.Equal(t, int64(0), got.SavingsPercent)
}

func TestCalculateDeposit_LateReturnPenaltyIsPolicyDriven(t *testing.T) {
	profile := models.UserProfile{TrustScore: 500, VerificationLevel: models.VerificationLow, LateReturns: 2}
	item := models.ItemDetails{Category: models.CategoryFurniture, RiskLevel: models.RiskLow}

	got, err := newCalculator().CalculateDeposit(profile, item, d("1000"))
	require.NoError(t, err)
	assert.NotContains(t, adjustmentTypes(got), models.AdjustmentLateReturns)

	policy := config.DefaultPricingPolicy().Deposit
	policy.LateReturnPenaltyRate = d("0.05")
	got, err = NewCalculator(policy).CalculateDeposit(profile, item, d("1000"))
	require.NoError(t, err)
	require.Equal(t, models.AdjustmentLateReturns, got.Adjustments[len(got.Adjustments)-1].Type)
	assert.True(t, got.Adjustments[len(got.Adjustments)-1].Amount.Equal(d("100")))
}

func TestCalculateDeposit_RejectsInvalidInput(t *testing.T) {
	valid := models.UserProfile{TrustScore: 500, VerificationLevel: models.VerificationLow}
	item := models.ItemDetails{Category: models.CategoryBooks, RiskLevel: models.RiskLow}

	tests := []struct {
		name    string
		profile models.UserProfile
		item    models.ItemDetails
		base    string
		wantErr error
	}{
		{"negative base", valid, item, "-1", ErrInvalidBaseDeposit},
		{"base below a paisa", valid, item, "1.005", ErrInvalidBaseDeposit},
		{"trust score above range", models.UserProfile{TrustScore: 1001, VerificationLevel: models.VerificationLow}, item, "100", ErrInvalidTrustScore},
		{"trust score below range", models.UserProfile{TrustScore: -1, VerificationLevel: models.VerificationLow}, item, "100", ErrInvalidTrustScore},
		{"unknown verification level", models.UserProfile{TrustScore: 500, VerificationLevel: "ultra"}, item, "100", ErrInvalidProfile},
		{"negative damage history", models.UserProfile{TrustScore: 500, VerificationLevel: models.VerificationLow, DamageHistory: -1}, item, "100", ErrInvalidProfile},
		{"unknown category", valid, models.ItemDetails{Category: "cars", RiskLevel: models.RiskLow}, "100", ErrInvalidItem},
		{"unknown risk level", valid, models.ItemDetails{Category: models.CategoryBooks, RiskLevel: "extreme"}, "100", ErrInvalidItem},
		{"negative item value", valid, models.ItemDetails{Value: d("-10"), Category: models.CategoryBooks, RiskLevel: models.RiskLow}, "100", ErrInvalidItem},
	}

	calc := newCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.CalculateDeposit(tt.profile, tt.item, d(tt.base))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

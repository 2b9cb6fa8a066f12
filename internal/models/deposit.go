package models

import "github.com/shopspring/decimal"

type VerificationLevel string

const (
	VerificationLow    VerificationLevel = "low"
	VerificationMedium VerificationLevel = "medium"
	VerificationHigh   VerificationLevel = "high"
)

func (v VerificationLevel) Valid() bool {
	switch v {
	case VerificationLow, VerificationMedium, VerificationHigh:
		return true
	}
	return false
}

type ItemCategory string

const (
	CategoryElectronics ItemCategory = "electronics"
	CategoryBooks       ItemCategory = "books"
	CategoryFurniture   ItemCategory = "furniture"
	CategoryClothing    ItemCategory = "clothing"
)

func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryBooks, CategoryFurniture, CategoryClothing:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// UserProfile is the renter reputation input of the deposit calculation.
type UserProfile struct {
	TrustScore        int               `json:"trustScore"`
	CompletedRentals  int               `json:"completedRentals"`
	VerificationLevel VerificationLevel `json:"verificationLevel"`
	DamageHistory     int               `json:"damageHistory"`
	LateReturns       int               `json:"lateReturns"`
}

// ItemDetails describes the item being rented.
type ItemDetails struct {
	Value     decimal.Decimal `json:"value"`
	Category  ItemCategory    `json:"category"`
	RiskLevel RiskLevel       `json:"riskLevel"`
}

// Deposit adjustment types, in the order they are applied.
const (
	AdjustmentTrustScore   = "trust_score"
	AdjustmentVerification = "verification"
	AdjustmentLoyalty      = "loyalty"
	AdjustmentRisk         = "risk"
	AdjustmentDamage       = "damage_history"
	AdjustmentLateReturns  = "late_returns"
)

type DepositAdjustment struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// DepositBreakdown is an advisory deposit quote. FinalDeposit never drops
// below the policy floor of the base deposit.
type DepositBreakdown struct {
	BaseDeposit    decimal.Decimal     `json:"baseDeposit"`
	FinalDeposit   decimal.Decimal     `json:"finalDeposit"`
	Adjustments    []DepositAdjustment `json:"adjustments"`
	SavingsPercent int64               `json:"savingsPercent"`
	FloorApplied   bool                `json:"floorApplied"`
}

package models

import "github.com/shopspring/decimal"

// RentalHistory is the per-renter aggregate used as the loyalty signal.
type RentalHistory struct {
	CompletedRentals int `json:"completedRentals"`
}

// FeeBreakdown flags which pricing rules shaped the commission.
type FeeBreakdown struct {
	LoyaltyDiscount   *decimal.Decimal `json:"loyaltyDiscount,omitempty"`
	MinimumFeeApplied bool             `json:"minimumFeeApplied,omitempty"`
	MaximumFeeCapped  bool             `json:"maximumFeeCapped,omitempty"`
}

// FeeCalculation is the commission quote for a single rental. It is never persisted.
type FeeCalculation struct {
	RentalAmount      decimal.Decimal `json:"rentalAmount"`
	CommissionRate    decimal.Decimal `json:"commissionRate"`
	CommissionFee     decimal.Decimal `json:"commissionFee"`
	VendorAmount      decimal.Decimal `json:"vendorAmount"`
	IsLoyaltyDiscount bool            `json:"isLoyaltyDiscount"`
	FeeBreakdown      FeeBreakdown    `json:"feeBreakdown"`
}

/*
Package fee computes the platform commission on a rental.

The commission is a percentage of the rental amount. Renters past the loyalty
threshold pay the reduced loyalty rate. The computed fee is then clamped into
the [minimum, maximum] band of the pricing policy, never exceeding the rental
amount itself, and the vendor receives the remainder:

	calc := fee.NewCalculator(policy.Fee)
	quote, err := calc.CalculateTransactionFee(decimal.NewFromInt(1000), models.RentalHistory{CompletedRentals: 12})
	// quote.CommissionFee == 30, quote.VendorAmount == 970, quote.IsLoyaltyDiscount == true

Service wraps the calculator with a renter lookup so callers can quote by
renter id.
*/
package fee

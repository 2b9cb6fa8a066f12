package escrow

import (
	"context"
	"time"

	"campusrent/internal/models"

	"github.com/shopspring/decimal"
)

// CreateRequest opens an escrow for a confirmed rental.
type CreateRequest struct {
	RentalID      string          `json:"rentalId"`
	RenterID      uint            `json:"renterId"`
	VendorID      uint            `json:"vendorId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CommissionFee decimal.Decimal `json:"commissionFee"`
	VendorAmount  decimal.Decimal `json:"vendorAmount"`

	// PaymentMethodID is the renter's saved card at the provider; Hold
	// authorizes against it.
	PaymentMethodID string `json:"paymentMethodId"`
}

type NoopNotifier struct{}

func (NoopNotifier) EscrowTransitioned(context.Context, *models.EscrowTransaction, models.EscrowEvent) error {
	return nil
}

type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTransition(models.EscrowState, models.EscrowState) {}
func (NoopMetricsCollector) RecordFailure(string, string)                            {}
func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration)           {}

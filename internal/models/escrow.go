package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EscrowState string

const (
	EscrowStateCreated  EscrowState = "created"
	EscrowStateHeld     EscrowState = "held"
	EscrowStateReleased EscrowState = "released"
	EscrowStateRefunded EscrowState = "refunded"
)

// IsTerminal reports whether no further transition is possible.
func (s EscrowState) IsTerminal() bool {
	return s == EscrowStateReleased || s == EscrowStateRefunded
}

// CanTransitionTo encodes the escrow state machine:
// created -> held -> released | refunded.
func (s EscrowState) CanTransitionTo(next EscrowState) bool {
	switch s {
	case EscrowStateCreated:
		return next == EscrowStateHeld
	case EscrowStateHeld:
		return next == EscrowStateReleased || next == EscrowStateRefunded
	default:
		return false
	}
}

// EscrowTransaction holds a rental's payment between confirmation and
// completion. Only the escrow service mutates State.
type EscrowTransaction struct {
	ID               string          `gorm:"primaryKey;type:uuid" json:"id"`
	RentalID         string          `gorm:"index;not null" json:"rentalId"`
	RenterID         uint            `gorm:"index;not null" json:"renterId"`
	VendorID         uint            `gorm:"index;not null" json:"vendorId"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	CommissionFee    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"commissionFee"`
	VendorAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"vendorAmount"`
	State            EscrowState     `gorm:"type:varchar(16);index;not null;default:'created'" json:"state"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	PaymentMethodID  string          `gorm:"size:255" json:"-"`
	HeldAt           *time.Time      `json:"heldAt,omitempty"`
	SettledAt        *time.Time      `json:"settledAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// IsParty reports whether userID is the renter or the vendor of the escrow.
func (e *EscrowTransaction) IsParty(userID uint) bool {
	return e.RenterID == userID || e.VendorID == userID
}

// EscrowEvent is an append-only record of a state change.
type EscrowEvent struct {
	ID         string          `gorm:"primaryKey;type:uuid" json:"id"`
	EscrowID   string          `gorm:"index;not null" json:"escrowId"`
	RentalID   string          `gorm:"not null" json:"rentalId"`
	FromState  EscrowState     `gorm:"type:varchar(16)" json:"fromState,omitempty"`
	ToState    EscrowState     `gorm:"type:varchar(16);not null" json:"toState"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	ActorID    uint            `json:"actorId"`
	OccurredAt time.Time       `gorm:"index;not null" json:"occurredAt"`
}

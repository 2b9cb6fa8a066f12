// Package notification delivers marketplace notices to users. Delivery is
// a structured log sink; callers treat every notice as best effort.
package notification

import (
	"context"
	"log/slog"
	"time"

	"campusrent/internal/logger"
	"campusrent/internal/models"
)

type Service struct {
	log *slog.Logger
}

func NewService() *Service {
	return &Service{log: logger.WithService("notification")}
}

// NewServiceWithLogger is used by tests to capture the output.
func NewServiceWithLogger(l *slog.Logger) *Service {
	return &Service{log: l}
}

// EscrowTransitioned tells both parties about a committed escrow change.
func (s *Service) EscrowTransitioned(ctx context.Context, escrow *models.EscrowTransaction, event models.EscrowEvent) error {
	for _, userID := range []uint{escrow.RenterID, escrow.VendorID} {
		s.log.InfoContext(ctx, "notify escrow update",
			"user_id", userID,
			"escrow_id", escrow.ID,
			"rental_id", escrow.RentalID,
			"state", event.ToState,
			"amount", escrow.TotalAmount.StringFixed(2))
	}
	return nil
}

// EscrowStale reminds both parties that an escrow has not moved for age.
func (s *Service) EscrowStale(ctx context.Context, escrow models.EscrowTransaction, age time.Duration) error {
	for _, userID := range []uint{escrow.RenterID, escrow.VendorID} {
		s.log.InfoContext(ctx, "notify escrow pending settlement",
			"user_id", userID,
			"escrow_id", escrow.ID,
			"state", escrow.State,
			"pending_for", age.Round(time.Minute).String())
	}
	return nil
}

func (s *Service) DisputeFiled(ctx context.Context, dispute *models.Dispute, escrow *models.EscrowTransaction) error {
	s.log.InfoContext(ctx, "notify dispute filed",
		"dispute_id", dispute.ID,
		"escrow_id", escrow.ID,
		"raised_by", dispute.RaisedBy,
		"renter_id", escrow.RenterID,
		"vendor_id", escrow.VendorID)
	return nil
}

func (s *Service) DisputeResolved(ctx context.Context, dispute *models.Dispute) error {
	s.log.InfoContext(ctx, "notify dispute resolved",
		"dispute_id", dispute.ID,
		"user_id", dispute.RaisedBy,
		"resolution", dispute.Resolution)
	return nil
}

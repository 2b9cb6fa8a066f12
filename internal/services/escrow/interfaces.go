package escrow

import (
	"context"
	"time"

	"campusrent/internal/models"
	"campusrent/internal/repositories"
	"campusrent/internal/services/payment"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.EscrowTransaction, error)
	Hold(ctx context.Context, id string, actorID uint) (*models.EscrowTransaction, error)
	Release(ctx context.Context, id string, actorID uint) (*models.EscrowTransaction, error)
	Refund(ctx context.Context, id string, actorID uint) (*models.EscrowTransaction, error)
	SettleDispute(ctx context.Context, id string, adminID uint, resolution models.DisputeResolution) (*models.EscrowTransaction, error)
	Get(ctx context.Context, id string) (*models.EscrowTransaction, error)
	Events(ctx context.Context, id string) ([]models.EscrowEvent, error)
	ListStale(ctx context.Context, state models.EscrowState, olderThan time.Duration) ([]models.EscrowTransaction, error)
}

// Repository is satisfied by repositories.EscrowRepository and the
// in-memory repository.
type Repository interface {
	Create(ctx context.Context, escrow *models.EscrowTransaction, event *models.EscrowEvent) error
	GetByID(ctx context.Context, id string) (*models.EscrowTransaction, error)
	Transition(ctx context.Context, id string, apply repositories.ApplyFunc) (*models.EscrowTransaction, error)
	ListEvents(ctx context.Context, escrowID string) ([]models.EscrowEvent, error)
	ListStale(ctx context.Context, state models.EscrowState, updatedBefore time.Time) ([]models.EscrowTransaction, error)
}

type PaymentGateway interface {
	Authorize(ctx context.Context, auth payment.Authorization) (string, error)
	Capture(ctx context.Context, reference string) error
	Void(ctx context.Context, reference string) error
}

// Notifier is told about committed transitions. Its errors are logged and
// never undo a transition.
type Notifier interface {
	EscrowTransitioned(ctx context.Context, escrow *models.EscrowTransaction, event models.EscrowEvent) error
}

// CompletionRecorder counts a completed rental for the renter once the
// escrow is released.
type CompletionRecorder interface {
	IncrementCompletedRentals(ctx context.Context, userID uint) error
}

// DisputeGuard reports open disputes. While one is open, Release and Refund
// are refused and only SettleDispute moves the escrow.
type DisputeGuard interface {
	HasOpenForEscrow(ctx context.Context, escrowID string) (bool, error)
}

type MetricsCollector interface {
	RecordTransition(from, to models.EscrowState)
	RecordFailure(operation, reason string)
	RecordOperationDuration(operation string, d time.Duration)
}

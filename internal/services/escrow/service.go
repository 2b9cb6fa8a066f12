package escrow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusrent/internal/logger"
	"campusrent/internal/models"
	"campusrent/internal/repositories"
	"campusrent/internal/services/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type service struct {
	repo        Repository
	gateway     PaymentGateway
	notifier    Notifier
	completions CompletionRecorder
	disputes    DisputeGuard
	metrics     MetricsCollector
	nowFn       func() time.Time
	newID       func() string
}

type Option func(*service)

func WithNotifier(n Notifier) Option {
	return func(s *service) { s.notifier = n }
}

func WithCompletionRecorder(r CompletionRecorder) Option {
	return func(s *service) { s.completions = r }
}

func WithDisputeGuard(g DisputeGuard) Option {
	return func(s *service) { s.disputes = g }
}

func WithMetrics(m MetricsCollector) Option {
	return func(s *service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.nowFn = now }
}

func NewService(repo Repository, gateway PaymentGateway, opts ...Option) Service {
	if repo == nil {
		panic("escrow repository is required")
	}
	if gateway == nil {
		panic("payment gateway is required")
	}

	s := &service{
		repo:     repo,
		gateway:  gateway,
		notifier: NoopNotifier{},
		metrics:  NoopMetricsCollector{},
		nowFn:    time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.EscrowTransaction, error) {
	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	now := s.nowFn()
	escrow := &models.EscrowTransaction{
		ID:              s.newID(),
		RentalID:        req.RentalID,
		RenterID:        req.RenterID,
		VendorID:        req.VendorID,
		TotalAmount:     req.TotalAmount,
		CommissionFee:   req.CommissionFee,
		VendorAmount:    req.VendorAmount,
		State:           models.EscrowStateCreated,
		PaymentMethodID: strings.TrimSpace(req.PaymentMethodID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	event := &models.EscrowEvent{
		ID:         s.newID(),
		EscrowID:   escrow.ID,
		RentalID:   escrow.RentalID,
		ToState:    models.EscrowStateCreated,
		Amount:     escrow.TotalAmount,
		ActorID:    req.RenterID,
		OccurredAt: now,
	}

	if err := s.repo.Create(ctx, escrow, event); err != nil {
		if errors.Is(err, repositories.ErrEscrowExists) {
			return nil, ErrEscrowExists
		}
		return nil, fmt.Errorf("failed to create escrow: %w", err)
	}

	logger.InfoContext(ctx, "escrow created",
		"escrow_id", escrow.ID,
		"rental_id", escrow.RentalID,
		"total_amount", escrow.TotalAmount.StringFixed(2))
	s.metrics.RecordTransition("", models.EscrowStateCreated)
	s.notify(ctx, escrow, *event)
	return escrow, nil
}

// Hold authorizes the renter's payment. A gateway failure leaves the
// escrow in created.
func (s *service) Hold(ctx context.Context, id string, actorID uint) (*models.EscrowTransaction, error) {
	return s.transition(ctx, "hold", id, actorID, models.EscrowStateHeld, func(e *models.EscrowTransaction, now time.Time) error {
		ref, err := s.gateway.Authorize(ctx, payment.Authorization{
			EscrowID:      e.ID,
			RentalID:      e.RentalID,
			RenterID:      e.RenterID,
			Amount:        e.TotalAmount,
			PaymentMethod: e.PaymentMethodID,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentCaptureFailed, err)
		}
		e.PaymentReference = ref
		e.HeldAt = &now
		return nil
	})
}

func (s *service) Release(ctx context.Context, id string, actorID uint) (*models.EscrowTransaction, error) {
	return s.release(ctx, id, actorID, true)
}

func (s *service) Refund(ctx context.Context, id string, actorID uint) (*models.EscrowTransaction, error) {
	return s.refund(ctx, id, actorID, true)
}

// SettleDispute releases or refunds on an admin's resolution. It skips the
// open dispute check that blocks Release and Refund.
func (s *service) SettleDispute(ctx context.Context, id string, adminID uint, resolution models.DisputeResolution) (*models.EscrowTransaction, error) {
	switch resolution {
	case models.ResolutionReleaseVendor:
		return s.release(ctx, id, adminID, false)
	case models.ResolutionRefundRenter:
		return s.refund(ctx, id, adminID, false)
	}
	return nil, fmt.Errorf("%w: unknown resolution %q", ErrInvalidEscrow, resolution)
}

func (s *service) release(ctx context.Context, id string, actorID uint, guarded bool) (*models.EscrowTransaction, error) {
	escrow, err := s.transition(ctx, "release", id, actorID, models.EscrowStateReleased, func(e *models.EscrowTransaction, now time.Time) error {
		if guarded {
			if err := s.checkNoOpenDispute(ctx, e.ID); err != nil {
				return err
			}
		}
		if err := s.gateway.Capture(ctx, e.PaymentReference); err != nil {
			return fmt.Errorf("%w: %v", ErrSettlementFailed, err)
		}
		e.SettledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.completions != nil {
		if err := s.completions.IncrementCompletedRentals(ctx, escrow.RenterID); err != nil {
			logger.WarnContext(ctx, "failed to record completed rental",
				"escrow_id", escrow.ID, "renter_id", escrow.RenterID, "error", err)
		}
	}
	return escrow, nil
}

func (s *service) refund(ctx context.Context, id string, actorID uint, guarded bool) (*models.EscrowTransaction, error) {
	return s.transition(ctx, "refund", id, actorID, models.EscrowStateRefunded, func(e *models.EscrowTransaction, now time.Time) error {
		if guarded {
			if err := s.checkNoOpenDispute(ctx, e.ID); err != nil {
				return err
			}
		}
		if err := s.gateway.Void(ctx, e.PaymentReference); err != nil {
			return fmt.Errorf("%w: %v", ErrSettlementFailed, err)
		}
		e.SettledAt = &now
		return nil
	})
}

func (s *service) checkNoOpenDispute(ctx context.Context, id string) error {
	if s.disputes == nil {
		return nil
	}
	open, err := s.disputes.HasOpenForEscrow(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check open disputes: %w", err)
	}
	if open {
		return ErrEscrowDisputed
	}
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*models.EscrowTransaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidEscrow
	}
	escrow, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEscrowNotFound) {
			return nil, ErrEscrowNotFound
		}
		return nil, fmt.Errorf("failed to load escrow: %w", err)
	}
	return escrow, nil
}

func (s *service) Events(ctx context.Context, id string) ([]models.EscrowEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load escrow events: %w", err)
	}
	return events, nil
}

func (s *service) ListStale(ctx context.Context, state models.EscrowState, olderThan time.Duration) ([]models.EscrowTransaction, error) {
	if olderThan <= 0 {
		return nil, ErrInvalidEscrow
	}
	return s.repo.ListStale(ctx, state, s.nowFn().Add(-olderThan))
}

// transition moves escrow id to state to. settle runs against the locked
// row after the state check and before the row is saved; its error aborts
// the transition.
func (s *service) transition(
	ctx context.Context,
	operation, id string,
	actorID uint,
	to models.EscrowState,
	settle func(e *models.EscrowTransaction, now time.Time) error,
) (*models.EscrowTransaction, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(operation, time.Since(start)) }()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidEscrow
	}

	var event models.EscrowEvent
	escrow, err := s.repo.Transition(ctx, id, func(e *models.EscrowTransaction) (*models.EscrowEvent, error) {
		from := e.State
		if !from.CanTransitionTo(to) {
			return nil, fmt.Errorf("%w: cannot %s an escrow that is %s", ErrInvalidStateTransition, operation, from)
		}

		now := s.nowFn()
		if err := settle(e, now); err != nil {
			return nil, err
		}
		e.State = to
		e.UpdatedAt = now

		event = models.EscrowEvent{
			ID:         s.newID(),
			EscrowID:   e.ID,
			RentalID:   e.RentalID,
			FromState:  from,
			ToState:    to,
			Amount:     e.TotalAmount,
			ActorID:    actorID,
			OccurredAt: now,
		}
		return &event, nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrEscrowNotFound) {
			err = ErrEscrowNotFound
		}
		s.metrics.RecordFailure(operation, failureReason(err))
		logger.WarnContext(ctx, "escrow transition rejected",
			"operation", operation, "escrow_id", id, "actor_id", actorID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "escrow transitioned",
		"escrow_id", escrow.ID,
		"from", event.FromState,
		"to", event.ToState,
		"actor_id", actorID)
	s.metrics.RecordTransition(event.FromState, event.ToState)
	s.notify(ctx, escrow, event)
	return escrow, nil
}

func (s *service) notify(ctx context.Context, escrow *models.EscrowTransaction, event models.EscrowEvent) {
	if err := s.notifier.EscrowTransitioned(ctx, escrow, event); err != nil {
		logger.WarnContext(ctx, "escrow notification failed", "escrow_id", escrow.ID, "error", err)
	}
}

func validateCreate(req *CreateRequest) error {
	req.RentalID = strings.TrimSpace(req.RentalID)
	switch {
	case req.RentalID == "":
		return fmt.Errorf("%w: rentalId is required", ErrInvalidEscrow)
	case req.RenterID == 0 || req.VendorID == 0:
		return fmt.Errorf("%w: renterId and vendorId are required", ErrInvalidEscrow)
	case req.RenterID == req.VendorID:
		return fmt.Errorf("%w: renter and vendor must differ", ErrInvalidEscrow)
	case !req.TotalAmount.IsPositive():
		return fmt.Errorf("%w: totalAmount must be positive", ErrInvalidEscrow)
	case req.CommissionFee.IsNegative() || req.VendorAmount.IsNegative():
		return fmt.Errorf("%w: commissionFee and vendorAmount must not be negative", ErrInvalidEscrow)
	case !inPaise(req.TotalAmount) || !inPaise(req.CommissionFee) || !inPaise(req.VendorAmount):
		return fmt.Errorf("%w: amounts must have at most two decimal places", ErrInvalidEscrow)
	case !req.CommissionFee.Add(req.VendorAmount).Equal(req.TotalAmount):
		return fmt.Errorf("%w: commissionFee plus vendorAmount must equal totalAmount", ErrInvalidEscrow)
	}
	return nil
}

func inPaise(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrEscrowNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidStateTransition):
		return "invalid_state"
	case errors.Is(err, ErrEscrowDisputed):
		return "disputed"
	case errors.Is(err, ErrPaymentCaptureFailed), errors.Is(err, ErrSettlementFailed):
		return "gateway"
	default:
		return "internal"
	}
}

// Package dispute lets a renter or vendor contest a held escrow and lets an
// admin settle it by refunding the renter or releasing to the vendor.
package dispute

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"campusrent/internal/logger"
	"campusrent/internal/models"
	"campusrent/internal/repositories"
)

const maxEvidence = 10

type Service interface {
	FileDispute(ctx context.Context, req FileRequest) (*models.Dispute, error)
	Resolve(ctx context.Context, disputeID, adminID uint, resolution models.DisputeResolution) (*models.Dispute, error)
	ListOpen(ctx context.Context) ([]models.Dispute, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Dispute, error)
}

type FileRequest struct {
	EscrowID string   `json:"escrowId"`
	UserID   uint     `json:"-"`
	Reason   string   `json:"reason"`
	Evidence []string `json:"evidenceUrls"`
}

// EscrowSettler is the part of the escrow service a resolution drives.
type EscrowSettler interface {
	Get(ctx context.Context, id string) (*models.EscrowTransaction, error)
	SettleDispute(ctx context.Context, id string, adminID uint, resolution models.DisputeResolution) (*models.EscrowTransaction, error)
}

type Notifier interface {
	DisputeFiled(ctx context.Context, dispute *models.Dispute, escrow *models.EscrowTransaction) error
	DisputeResolved(ctx context.Context, dispute *models.Dispute) error
}

type service struct {
	repo     repositories.DisputeRepository
	escrows  EscrowSettler
	notifier Notifier
	nowFn    func() time.Time
}

func NewService(repo repositories.DisputeRepository, escrows EscrowSettler, notifier Notifier) Service {
	if repo == nil || escrows == nil || notifier == nil {
		panic("dispute service requires a repository, an escrow settler and a notifier")
	}
	return &service{repo: repo, escrows: escrows, notifier: notifier, nowFn: time.Now}
}

func (s *service) FileDispute(ctx context.Context, req FileRequest) (*models.Dispute, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if err := validateEvidence(req.Evidence); err != nil {
		return nil, err
	}

	escrow, err := s.escrows.Get(ctx, req.EscrowID)
	if err != nil {
		return nil, err
	}
	if !escrow.IsParty(req.UserID) {
		return nil, ErrNotParty
	}
	if escrow.State != models.EscrowStateHeld {
		return nil, ErrEscrowNotHeld
	}

	open, err := s.repo.HasOpenForEscrow(ctx, escrow.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open disputes: %w", err)
	}
	if open {
		return nil, ErrDisputeExists
	}

	dispute := &models.Dispute{
		EscrowID:     escrow.ID,
		RentalID:     escrow.RentalID,
		RaisedBy:     req.UserID,
		Reason:       reason,
		EvidenceURLs: req.Evidence,
		Status:       models.DisputeStatusOpen,
	}
	if err := s.repo.Create(ctx, dispute); err != nil {
		return nil, fmt.Errorf("failed to create dispute: %w", err)
	}

	logger.InfoContext(ctx, "dispute filed", "dispute_id", dispute.ID, "escrow_id", escrow.ID, "raised_by", req.UserID)
	if err := s.notifier.DisputeFiled(ctx, dispute, escrow); err != nil {
		logger.WarnContext(ctx, "dispute notification failed", "dispute_id", dispute.ID, "error", err)
	}
	return dispute, nil
}

// Resolve settles the escrow first and marks the dispute resolved only if
// that succeeds. An escrow that already reached a terminal state closes the
// dispute with the outcome it actually had.
func (s *service) Resolve(ctx context.Context, disputeID, adminID uint, resolution models.DisputeResolution) (*models.Dispute, error) {
	if !resolution.Valid() {
		return nil, ErrInvalidResolution
	}

	dispute, err := s.repo.FindByID(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repositories.ErrDisputeNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, fmt.Errorf("failed to load dispute: %w", err)
	}
	if dispute.Status != models.DisputeStatusOpen {
		return nil, ErrDisputeNotOpen
	}

	escrow, err := s.escrows.Get(ctx, dispute.EscrowID)
	if err != nil {
		return nil, err
	}
	if escrow.State.IsTerminal() {
		settled := outcomeOf(escrow.State)
		if settled != resolution {
			logger.WarnContext(ctx, "escrow was settled before the dispute was resolved",
				"dispute_id", dispute.ID, "escrow_id", escrow.ID, "requested", resolution, "state", escrow.State)
		}
		resolution = settled
	} else if _, err := s.escrows.SettleDispute(ctx, dispute.EscrowID, adminID, resolution); err != nil {
		return nil, err
	}

	now := s.nowFn()
	dispute.Status = models.DisputeStatusResolved
	dispute.Resolution = resolution
	dispute.ResolvedBy = &adminID
	dispute.ResolvedAt = &now
	if err := s.repo.Update(ctx, dispute); err != nil {
		return nil, fmt.Errorf("escrow settled but dispute update failed: %w", err)
	}

	logger.InfoContext(ctx, "dispute resolved", "dispute_id", dispute.ID, "resolution", resolution, "admin_id", adminID)
	if err := s.notifier.DisputeResolved(ctx, dispute); err != nil {
		logger.WarnContext(ctx, "dispute notification failed", "dispute_id", dispute.ID, "error", err)
	}
	return dispute, nil
}

func (s *service) ListOpen(ctx context.Context) ([]models.Dispute, error) {
	return s.repo.ListByStatus(ctx, models.DisputeStatusOpen)
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]models.Dispute, error) {
	return s.repo.ListForUser(ctx, userID)
}

func outcomeOf(state models.EscrowState) models.DisputeResolution {
	if state == models.EscrowStateRefunded {
		return models.ResolutionRefundRenter
	}
	return models.ResolutionReleaseVendor
}

func validateEvidence(urls []string) error {
	if len(urls) > maxEvidence {
		return ErrInvalidEvidence
	}
	for _, raw := range urls {
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidEvidence
		}
	}
	return nil
}

package jobs

import (
	"context"
	"fmt"

	"campusrent/internal/logger"
	"campusrent/internal/models"
)

// RemindStaleEscrows notifies both parties of every escrow that has held
// funds for longer than StaleAfter.
func (jr *JobRunner) RemindStaleEscrows() {
	jr.runWithRecovery("RemindStaleEscrows", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.config.Timeout)
		defer cancel()

		sent, err := jr.remindStaleEscrows(ctx)
		if err != nil {
			logger.Error("Failed to remind stale escrows", "error", err)
			return
		}
		logger.Info("Stale escrow reminders sent", "count", sent)
	})
}

func (jr *JobRunner) remindStaleEscrows(ctx context.Context) (int, error) {
	stale, err := jr.escrows.ListStale(ctx, models.EscrowStateHeld, jr.config.StaleAfter)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale escrows: %w", err)
	}

	now := jr.nowFn()
	sent := 0
	for _, escrow := range stale {
		since := escrow.UpdatedAt
		if escrow.HeldAt != nil {
			since = *escrow.HeldAt
		}

		// one bad notification must not starve the rest
		if err := jr.notifier.EscrowStale(ctx, escrow, now.Sub(since)); err != nil {
			logger.Warn("Failed to send stale escrow reminder", "escrow_id", escrow.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

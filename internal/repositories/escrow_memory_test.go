package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusrent/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEscrow(t *testing.T, repo *MemoryEscrowRepository, id string) {
	t.Helper()
	escrow := &models.EscrowTransaction{
		ID:            id,
		RentalID:      "rental-" + id,
		RenterID:      1,
		VendorID:      2,
		TotalAmount:   decimal.NewFromInt(1000),
		CommissionFee: decimal.NewFromInt(50),
		VendorAmount:  decimal.NewFromInt(950),
		State:         models.EscrowStateCreated,
	}
	event := &models.EscrowEvent{ID: id + "-created", EscrowID: id, ToState: models.EscrowStateCreated}
	require.NoError(t, repo.Create(context.Background(), escrow, event))
}

func TestMemoryEscrowRepository_CreateRejectsDuplicate(t *testing.T) {
	repo := NewMemoryEscrowRepository()
	seedEscrow(t, repo, "a")

	err := repo.Create(context.Background(), &models.EscrowTransaction{ID: "a"}, nil)
	assert.ErrorIs(t, err, ErrEscrowExists)
}

func TestMemoryEscrowRepository_Transition(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEscrowRepository()
	seedEscrow(t, repo, "a")

	got, err := repo.Transition(ctx, "a", func(e *models.EscrowTransaction) (*models.EscrowEvent, error) {
		e.State = models.EscrowStateHeld
		return &models.EscrowEvent{ID: "a-held", EscrowID: e.ID, FromState: models.EscrowStateCreated, ToState: models.EscrowStateHeld}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.EscrowStateHeld, got.State)

	events, err := repo.ListEvents(ctx, "a")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EscrowStateHeld, events[1].ToState)
}

func TestMemoryEscrowRepository_TransitionErrorLeavesRowUntouched(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEscrowRepository()
	seedEscrow(t, repo, "a")

	_, err := repo.Transition(ctx, "a", func(e *models.EscrowTransaction) (*models.EscrowEvent, error) {
		e.State = models.EscrowStateHeld
		return nil, errors.New("declined")
	})
	require.Error(t, err)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.EscrowStateCreated, got.State)

	_, err = repo.Transition(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrEscrowNotFound)
}

func TestMemoryEscrowRepository_ListStale(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now.Add(-96 * time.Hour)
	repo := NewMemoryEscrowRepository().WithClock(func() time.Time { return clock })

	seedEscrow(t, repo, "old")
	_, err := repo.Transition(ctx, "old", func(e *models.EscrowTransaction) (*models.EscrowEvent, error) {
		e.State = models.EscrowStateHeld
		return nil, nil
	})
	require.NoError(t, err)

	clock = now.Add(-time.Hour)
	seedEscrow(t, repo, "fresh")
	_, err = repo.Transition(ctx, "fresh", func(e *models.EscrowTransaction) (*models.EscrowEvent, error) {
		e.State = models.EscrowStateHeld
		return nil, nil
	})
	require.NoError(t, err)

	stale, err := repo.ListStale(ctx, models.EscrowStateHeld, now.Add(-72*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "old", stale[0].ID)
}

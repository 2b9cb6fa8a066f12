package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"campusrent/internal/models"
)

// MemoryEscrowRepository keeps escrows in process. Transition holds the
// mutex for the whole read-modify-write, which gives the same serialisation
// as the row lock of the gorm repository.
type MemoryEscrowRepository struct {
	mu      sync.Mutex
	escrows map[string]models.EscrowTransaction
	events  map[string][]models.EscrowEvent
	nowFn   func() time.Time
}

func NewMemoryEscrowRepository() *MemoryEscrowRepository {
	return &MemoryEscrowRepository{
		escrows: make(map[string]models.EscrowTransaction),
		events:  make(map[string][]models.EscrowEvent),
		nowFn:   time.Now,
	}
}

// WithClock overrides the timestamp source used for CreatedAt/UpdatedAt.
func (r *MemoryEscrowRepository) WithClock(now func() time.Time) *MemoryEscrowRepository {
	r.nowFn = now
	return r
}

func (r *MemoryEscrowRepository) Create(_ context.Context, escrow *models.EscrowTransaction, event *models.EscrowEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.escrows[escrow.ID]; exists {
		return ErrEscrowExists
	}
	now := r.nowFn()
	if escrow.CreatedAt.IsZero() {
		escrow.CreatedAt = now
	}
	escrow.UpdatedAt = now
	r.escrows[escrow.ID] = *escrow
	if event != nil {
		r.events[escrow.ID] = append(r.events[escrow.ID], *event)
	}
	return nil
}

func (r *MemoryEscrowRepository) GetByID(_ context.Context, id string) (*models.EscrowTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	escrow, ok := r.escrows[id]
	if !ok {
		return nil, ErrEscrowNotFound
	}
	return &escrow, nil
}

func (r *MemoryEscrowRepository) Transition(_ context.Context, id string, apply ApplyFunc) (*models.EscrowTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.escrows[id]
	if !ok {
		return nil, ErrEscrowNotFound
	}

	working := current
	event, err := apply(&working)
	if err != nil {
		return nil, err
	}
	working.UpdatedAt = r.nowFn()
	r.escrows[id] = working
	if event != nil {
		r.events[id] = append(r.events[id], *event)
	}
	return &working, nil
}

func (r *MemoryEscrowRepository) ListEvents(_ context.Context, escrowID string) ([]models.EscrowEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]models.EscrowEvent, len(r.events[escrowID]))
	copy(events, r.events[escrowID])
	return events, nil
}

func (r *MemoryEscrowRepository) ListStale(_ context.Context, state models.EscrowState, updatedBefore time.Time) ([]models.EscrowTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stale []models.EscrowTransaction
	for _, escrow := range r.escrows {
		if escrow.State == state && escrow.UpdatedAt.Before(updatedBefore) {
			stale = append(stale, escrow)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].UpdatedAt.Before(stale[j].UpdatedAt) })
	return stale, nil
}

package repositories

import (
	"context"
	"errors"
	"time"

	"campusrent/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyFunc mutates a locked escrow row and returns the event recording the
// change. Returning an error aborts the transition and leaves the row as it
// was.
type ApplyFunc func(escrow *models.EscrowTransaction) (*models.EscrowEvent, error)

// EscrowRepository persists escrow transactions and their event log.
type EscrowRepository interface {
	Create(ctx context.Context, escrow *models.EscrowTransaction, event *models.EscrowEvent) error
	GetByID(ctx context.Context, id string) (*models.EscrowTransaction, error)
	Transition(ctx context.Context, id string, apply ApplyFunc) (*models.EscrowTransaction, error)
	ListEvents(ctx context.Context, escrowID string) ([]models.EscrowEvent, error)
	ListStale(ctx context.Context, state models.EscrowState, updatedBefore time.Time) ([]models.EscrowTransaction, error)
}

type escrowRepository struct {
	db *gorm.DB
}

func NewEscrowRepository(db *gorm.DB) EscrowRepository {
	return &escrowRepository{db: db}
}

func (r *escrowRepository) Create(ctx context.Context, escrow *models.EscrowTransaction, event *models.EscrowEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(escrow).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEscrowExists
			}
			return err
		}
		if event == nil {
			return nil
		}
		return tx.Create(event).Error
	})
}

func (r *escrowRepository) GetByID(ctx context.Context, id string) (*models.EscrowTransaction, error) {
	var escrow models.EscrowTransaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&escrow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEscrowNotFound
		}
		return nil, err
	}
	return &escrow, nil
}

// Transition runs apply against the row locked with SELECT ... FOR UPDATE,
// then saves the row and appends the event in the same transaction.
func (r *escrowRepository) Transition(ctx context.Context, id string, apply ApplyFunc) (*models.EscrowTransaction, error) {
	var escrow models.EscrowTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&escrow).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEscrowNotFound
			}
			return err
		}

		event, err := apply(&escrow)
		if err != nil {
			return err
		}

		if err := tx.Save(&escrow).Error; err != nil {
			return err
		}
		if event != nil {
			return tx.Create(event).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &escrow, nil
}

func (r *escrowRepository) ListEvents(ctx context.Context, escrowID string) ([]models.EscrowEvent, error) {
	var events []models.EscrowEvent
	err := r.db.WithContext(ctx).
		Where("escrow_id = ?", escrowID).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}

func (r *escrowRepository) ListStale(ctx context.Context, state models.EscrowState, updatedBefore time.Time) ([]models.EscrowTransaction, error) {
	var escrows []models.EscrowTransaction
	err := r.db.WithContext(ctx).
		Where("state = ? AND updated_at < ?", state, updatedBefore).
		Order("updated_at ASC").
		Find(&escrows).Error
	return escrows, err
}

package repositories

import (
	"context"
	"errors"

	"campusrent/internal/models"

	"gorm.io/gorm"
)

type DisputeRepository interface {
	Create(ctx context.Context, dispute *models.Dispute) error
	FindByID(ctx context.Context, id uint) (*models.Dispute, error)
	HasOpenForEscrow(ctx context.Context, escrowID string) (bool, error)
	ListByStatus(ctx context.Context, status string) ([]models.Dispute, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Dispute, error)
	Update(ctx context.Context, dispute *models.Dispute) error
}

type disputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	return r.db.WithContext(ctx).Create(dispute).Error
}

func (r *disputeRepository) FindByID(ctx context.Context, id uint) (*models.Dispute, error) {
	var dispute models.Dispute
	if err := r.db.WithContext(ctx).First(&dispute, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *disputeRepository) HasOpenForEscrow(ctx context.Context, escrowID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Dispute{}).
		Where("escrow_id = ? AND status = ?", escrowID, models.DisputeStatusOpen).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *disputeRepository) ListByStatus(ctx context.Context, status string) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at ASC").Find(&disputes).Error
	return disputes, err
}

// ListForUser returns disputes the user raised or that concern an escrow in
// which the user is renter or vendor.
func (r *disputeRepository) ListForUser(ctx context.Context, userID uint) ([]models.Dispute, error) {
	db := r.db.WithContext(ctx)
	parties := db.Model(&models.EscrowTransaction{}).
		Select("id").
		Where("renter_id = ? OR vendor_id = ?", userID, userID)

	var disputes []models.Dispute
	err := db.Where("raised_by = ?", userID).
		Or("escrow_id IN (?)", parties).
		Order("created_at DESC").
		Find(&disputes).Error
	return disputes, err
}

func (r *disputeRepository) Update(ctx context.Context, dispute *models.Dispute) error {
	return r.db.WithContext(ctx).Save(dispute).Error
}

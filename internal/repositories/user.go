package repositories

import (
	"context"
	"errors"
	"strings"

	"campusrent/internal/logger"
	"campusrent/internal/models"
	"campusrent/internal/repositories/cache"

	"gorm.io/gorm"
)

// UserRepository stores marketplace accounts and their reputation fields.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetRentalHistory(ctx context.Context, userID uint) (models.RentalHistory, error)
	GetUserProfile(ctx context.Context, userID uint) (models.UserProfile, error)
	IncrementCompletedRentals(ctx context.Context, userID uint) error
	IncrementTokenVersion(ctx context.Context, userID uint) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository returns a repository that reads profiles through the
// cache when one is given.
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) GetRentalHistory(ctx context.Context, userID uint) (models.RentalHistory, error) {
	profile, err := r.GetUserProfile(ctx, userID)
	if err != nil {
		return models.RentalHistory{}, err
	}
	return models.RentalHistory{CompletedRentals: profile.CompletedRentals}, nil
}

func (r *userRepository) GetUserProfile(ctx context.Context, userID uint) (models.UserProfile, error) {
	if r.cache != nil {
		profile, found, err := r.cache.GetUserProfile(ctx, userID)
		if err != nil {
			logger.WarnContext(ctx, "profile cache read failed", "user_id", userID, "error", err)
		} else if found {
			return profile, nil
		}
	}

	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	profile := user.Profile()

	if r.cache != nil {
		if err := r.cache.CacheUserProfile(ctx, userID, profile); err != nil {
			logger.WarnContext(ctx, "failed to cache profile", "user_id", userID, "error", err)
		}
	}
	return profile, nil
}

func (r *userRepository) IncrementCompletedRentals(ctx context.Context, userID uint) error {
	return r.incrementColumn(ctx, userID, "completed_rentals")
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	return r.incrementColumn(ctx, userID, "token_version")
}

func (r *userRepository) incrementColumn(ctx context.Context, userID uint, column string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) invalidate(ctx context.Context, userID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateUser(ctx, userID); err != nil {
		logger.WarnContext(ctx, "failed to invalidate profile cache", "user_id", userID, "error", err)
	}
}

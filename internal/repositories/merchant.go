package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/sohamgherwada/PayQI/internal/models"

	"gorm.io/gorm"
)

// MerchantRepository persists merchant accounts.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *models.Merchant) error
	GetByEmail(ctx context.Context, email string) (*models.Merchant, error)
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
}

type merchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository creates a new instance of MerchantRepository
func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	err := r.db.WithContext(ctx).Create(merchant).Error
	if err != nil {
		// The unique index on email is the source of truth for duplicates.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *merchantRepository) GetByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&merchant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.db.WithContext(ctx).First(&merchant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}
	return &merchant, nil
}

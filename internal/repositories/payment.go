package repositories

import (
	"context"
	"errors"

	"github.com/sohamgherwada/PayQI/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository persists payment records. Rows are append-only: they
// are created once and mutated, never deleted.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	GetByIDForMerchant(ctx context.Context, id, merchantID uint) (*models.Payment, error)
	ListByMerchant(ctx context.Context, merchantID uint, offset, limit int) ([]models.Payment, error)
	// UpdateWithLock loads the payment for the given provider invoice id
	// under a row-level lock, runs fn on it and saves the result in the
	// same transaction. A webhook racing the enrichment write serializes
	// here instead of interleaving field by field.
	UpdateWithLock(ctx context.Context, providerInvoiceID string, fn func(payment *models.Payment) error) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) GetByIDForMerchant(ctx context.Context, id, merchantID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("id = ? AND merchant_id = ?", id, merchantID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByMerchant(ctx context.Context, merchantID uint, offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) UpdateWithLock(ctx context.Context, providerInvoiceID string, fn func(payment *models.Payment) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("provider_invoice_id = ?", providerInvoiceID).
			First(&payment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		if err := fn(&payment); err != nil {
			if errors.Is(err, ErrNoUpdate) {
				return nil
			}
			return err
		}

		return tx.Save(&payment).Error
	})
}

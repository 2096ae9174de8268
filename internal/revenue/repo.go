package revenue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
)

// Repository reads the order slices the aggregation replays. All queries are
// read-only; settlement never mutates orders.
type Repository interface {
	ListPaidSince(ctx context.Context, since time.Time, storeID *uuid.UUID) ([]models.Order, error)
	ListRefundedSince(ctx context.Context, since time.Time, storeID *uuid.UUID) ([]models.Order, error)
	ListCODPending(ctx context.Context, storeID *uuid.UUID) ([]models.Order, error)
	ListRecent(ctx context.Context, limit int, storeID *uuid.UUID) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func scopeStore(query *gorm.DB, storeID *uuid.UUID) *gorm.DB {
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	return query
}

func sinceBound(query *gorm.DB, column string, since time.Time) *gorm.DB {
	if !since.IsZero() {
		query = query.Where(column+" >= ?", since)
	}
	return query
}

func (r *repository) ListPaidSince(ctx context.Context, since time.Time, storeID *uuid.UUID) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_status = ?", enums.PaymentStatusPaid)
	query = sinceBound(query, "created_at", since)
	query = scopeStore(query, storeID)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListRefundedSince(ctx context.Context, since time.Time, storeID *uuid.UUID) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("cancellation_request->>'status' = ?", enums.CancellationStatusApproved.String())
	query = sinceBound(query, "cancelled_at", since)
	query = scopeStore(query, storeID)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListCODPending returns delivered cash orders whose collection has not been
// marked paid yet.
func (r *repository) ListCODPending(ctx context.Context, storeID *uuid.UUID) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_status = ?", enums.OrderStatusDelivered).
		Where("payment_method = ?", enums.PaymentMethodCOD).
		Where("payment_status <> ?", enums.PaymentStatusPaid)
	query = scopeStore(query, storeID)

	var orders []models.Order
	if err := query.Order("delivered_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int, storeID *uuid.UUID) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Order("created_at DESC").
		Limit(limit)
	query = scopeStore(query, storeID)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
	"github.com/ovenmade/bakemart-backend/pkg/pagination"
	"github.com/ovenmade/bakemart-backend/pkg/types"
)

// ListFilter scopes order listing. A nil UserID means no owner filter and is
// only ever set server-side for admins.
type ListFilter struct {
	UserID          *uuid.UUID
	StoreID         *uuid.UUID
	DeliveryAgentID *uuid.UUID
	Status          *enums.OrderStatus
}

// Repository persists orders. Every status mutation goes through a guarded
// UPDATE so a stale read can never overwrite a concurrent transition.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, error)
	ListAgentPool(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (bool, error)
	AssignAgent(ctx context.Context, id, agentID uuid.UUID) (bool, error)
	MarkDelivered(ctx context.Context, id, agentID uuid.UUID) (bool, error)
	SetPendingCancellation(ctx context.Context, id uuid.UUID, req *types.CancellationRequest) (bool, error)
	SetCancellationRequest(ctx context.Context, id uuid.UUID, req *types.CancellationRequest) error
	ApplyCancellation(ctx context.Context, id uuid.UUID, req *types.CancellationRequest) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.DeliveryAgentID != nil {
		query = query.Where("delivery_agent_id = ?", *filter.DeliveryAgentID)
	}
	if filter.Status != nil {
		query = query.Where("order_status = ?", *filter.Status)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var orders []models.Order
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAgentPool returns dispatched orders no agent has claimed yet.
func (r *repository) ListAgentPool(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("order_status = ? AND delivery_agent_id IS NULL", enums.OrderStatusAwaitingAgent).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET order_status = ?, updated_at = NOW()
		WHERE id = ? AND order_status = ?`,
		to, id, from,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET payment_status = ?, updated_at = NOW()
		WHERE id = ? AND payment_status <> ?`,
		enums.PaymentStatusPaid, id, enums.PaymentStatusPaid,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AssignAgent claims the order for one agent. The guard loses for everyone
// except the first acceptor.
func (r *repository) AssignAgent(ctx context.Context, id, agentID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET delivery_agent_id = ?, order_status = ?, updated_at = NOW()
		WHERE id = ? AND order_status = ? AND delivery_agent_id IS NULL`,
		agentID, enums.OrderStatusOutForDelivery, id, enums.OrderStatusAwaitingAgent,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) MarkDelivered(ctx context.Context, id, agentID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET order_status = ?, delivered_at = NOW(), updated_at = NOW()
		WHERE id = ? AND order_status = ? AND delivery_agent_id = ?`,
		enums.OrderStatusDelivered, id, enums.OrderStatusOutForDelivery, agentID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SetPendingCancellation attaches a new pending request. The guard keeps a
// request from landing on an order that left the cancellable window between
// the service's read and this write.
func (r *repository) SetPendingCancellation(ctx context.Context, id uuid.UUID, req *types.CancellationRequest) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND order_status NOT IN ?", id,
			[]enums.OrderStatus{enums.OrderStatusDelivered, enums.OrderStatusCancelled, enums.OrderStatusOutForDelivery}).
		Update("cancellation_request", req)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) SetCancellationRequest(ctx context.Context, id uuid.UUID, req *types.CancellationRequest) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("cancellation_request", req).Error
}

// ApplyCancellation cancels the order and stores the resolved request. The
// guard refuses orders that reached a terminal state in the meantime.
func (r *repository) ApplyCancellation(ctx context.Context, id uuid.UUID, req *types.CancellationRequest) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND order_status NOT IN ?", id,
			[]enums.OrderStatus{enums.OrderStatusDelivered, enums.OrderStatusCancelled}).
		Updates(map[string]any{
			"order_status":         enums.OrderStatusCancelled,
			"cancellation_request": req,
			"cancelled_at":         gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/types"
)

// Repository reads vendor stores. Checkout captures a snapshot of the store
// at order time; nothing here ever mutates pricing-relevant records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Store, error)
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

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active", id).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *repository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// Snapshot freezes the fields orders carry forward.
func Snapshot(store *models.Store) types.StoreSnapshot {
	return types.StoreSnapshot{
		StoreID:         store.ID,
		Name:            store.Name,
		Address:         store.Address,
		Phone:           store.Phone,
		AdminCutPercent: store.AdminCutPercent,
	}
}

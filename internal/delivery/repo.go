package delivery

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
)

// Repository loads delivery locations.
type Repository interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.DeliveryLocation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a delivery location repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.DeliveryLocation, error) {
	var location models.DeliveryLocation
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active", id).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

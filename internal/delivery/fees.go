package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/config"
	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
)

type locationReader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.DeliveryLocation, error)
}

// FeeResolver turns an optional location id plus the cart subtotal into a
// delivery charge.
type FeeResolver struct {
	repo   locationReader
	policy config.DeliveryConfig
}

// NewFeeResolver builds the resolver with its fallback policy.
func NewFeeResolver(repo locationReader, policy config.DeliveryConfig) (*FeeResolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("delivery location repository required")
	}
	return &FeeResolver{repo: repo, policy: policy}, nil
}

// Resolve returns the delivery fee for the given location. An absent or
// unresolvable location falls back to the policy default: free above the
// configured subtotal threshold, flat fee otherwise.
func (r *FeeResolver) Resolve(ctx context.Context, locationID *uuid.UUID, subtotal int64) (int64, error) {
	if locationID != nil && *locationID != uuid.Nil {
		location, err := r.repo.FindActiveByID(ctx, *locationID)
		switch {
		case err == nil:
			return location.Fee, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			// unresolvable location: fall through to the policy default
		default:
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery location")
		}
	}

	if subtotal >= r.policy.FreeAboveSubtotal {
		return 0, nil
	}
	return r.policy.FlatFee, nil
}

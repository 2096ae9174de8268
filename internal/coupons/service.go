package coupons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
)

// Result is a coupon evaluated against a subtotal. Discount and
// WalletCashback are mutually exclusive: wallet-type coupons never reduce
// the payable total.
type Result struct {
	Coupon         *models.Coupon
	Discount       int64
	WalletCashback int64
}

// Service validates codes and, at checkout, redeems them atomically.
type Service interface {
	Validate(ctx context.Context, code string, subtotal int64, userID uuid.UUID) (*Result, error)
	Redeem(ctx context.Context, tx *gorm.DB, coupon *models.Coupon, userID, orderID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a coupon service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

// Validate runs the ordered checks from the redemption rules. Each failure
// carries a distinct message so the client can surface the exact reason.
func (s *service) Validate(ctx context.Context, code string, subtotal int64, userID uuid.UUID) (*Result, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}

	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if !coupon.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon")
	}
	if coupon.ExpiryDate.Before(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon expired")
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon usage limit exceeded")
	}
	if coupon.UsageLimitPerUser != nil {
		used, err := s.repo.CountRedemptions(ctx, coupon.ID, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon redemptions")
		}
		if used >= int64(*coupon.UsageLimitPerUser) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon usage limit reached for this account")
		}
	}
	if subtotal < coupon.MinOrderAmount {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order amount not met")
	}

	result := &Result{Coupon: coupon}
	switch coupon.DiscountType {
	case enums.CouponTypeWallet:
		result.WalletCashback = coupon.DiscountValue
	case enums.CouponTypePercentage:
		discount := subtotal * coupon.DiscountValue / 100
		if coupon.MaxDiscount != nil && discount > *coupon.MaxDiscount {
			discount = *coupon.MaxDiscount
		}
		result.Discount = discount
	case enums.CouponTypeFixed:
		result.Discount = coupon.DiscountValue
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon")
	}

	if result.Discount > subtotal {
		result.Discount = subtotal
	}

	return result, nil
}

// Redeem advances the usage counter with a conditional update and records
// the per-user ledger row. Losing the conditional update means a concurrent
// redemption took the last remaining use.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, coupon *models.Coupon, userID, orderID uuid.UUID) error {
	if coupon == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon required")
	}

	repo := s.repo.WithTx(tx)

	claimed, err := repo.IncrementUsage(ctx, coupon.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment coupon usage")
	}
	if !claimed {
		return pkgerrors.New(pkgerrors.CodeIntegrity, "coupon usage limit exceeded")
	}

	redemption := &models.CouponRedemption{
		CouponID: coupon.ID,
		UserID:   userID,
		OrderID:  orderID,
	}
	if err := repo.CreateRedemption(ctx, redemption); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record coupon redemption")
	}
	return nil
}

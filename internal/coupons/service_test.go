package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
)

type stubCouponRepo struct {
	coupon      *models.Coupon
	findErr     error
	redemptions int64
	countErr    error

	claimed     bool
	incrementOK bool
	redemption  *models.CouponRedemption
}

func (s *stubCouponRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCouponRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.coupon, nil
}

func (s *stubCouponRepo) CountRedemptions(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	return s.redemptions, s.countErr
}

func (s *stubCouponRepo) IncrementUsage(ctx context.Context, couponID uuid.UUID) (bool, error) {
	s.claimed = true
	return s.incrementOK, nil
}

func (s *stubCouponRepo) CreateRedemption(ctx context.Context, redemption *models.CouponRedemption) error {
	s.redemption = redemption
	return nil
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func activeCoupon(t enums.CouponType, value int64) *models.Coupon {
	return &models.Coupon{
		ID:            uuid.New(),
		Code:          "SAVE50",
		DiscountType:  t,
		DiscountValue: value,
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		IsActive:      true,
	}
}

func TestValidateFixedCoupon(t *testing.T) {
	svc, err := NewService(&stubCouponRepo{coupon: activeCoupon(enums.CouponTypeFixed, 5000)})
	require.NoError(t, err)

	result, err := svc.Validate(context.Background(), "save50", 100000, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(5000), result.Discount)
	assert.Zero(t, result.WalletCashback)
}

func TestValidatePercentageCapped(t *testing.T) {
	coupon := activeCoupon(enums.CouponTypePercentage, 20)
	coupon.MaxDiscount = int64Ptr(10000)
	svc, _ := NewService(&stubCouponRepo{coupon: coupon})

	// 20% of 100000 is 20000, capped at 10000.
	result, err := svc.Validate(context.Background(), "SAVE50", 100000, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), result.Discount)
}

func TestValidateWalletCouponYieldsCashbackOnly(t *testing.T) {
	svc, _ := NewService(&stubCouponRepo{coupon: activeCoupon(enums.CouponTypeWallet, 7500)})

	result, err := svc.Validate(context.Background(), "SAVE50", 100000, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, result.Discount)
	assert.Equal(t, int64(7500), result.WalletCashback)
}

func TestValidateDiscountNeverExceedsSubtotal(t *testing.T) {
	svc, _ := NewService(&stubCouponRepo{coupon: activeCoupon(enums.CouponTypeFixed, 25000)})

	result, err := svc.Validate(context.Background(), "SAVE50", 10000, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), result.Discount)
}

func TestValidateFailures(t *testing.T) {
	expired := activeCoupon(enums.CouponTypeFixed, 5000)
	expired.ExpiryDate = time.Now().Add(-time.Hour)

	inactive := activeCoupon(enums.CouponTypeFixed, 5000)
	inactive.IsActive = false

	exhausted := activeCoupon(enums.CouponTypeFixed, 5000)
	exhausted.UsageLimit = intPtr(10)
	exhausted.UsedCount = 10

	perUser := activeCoupon(enums.CouponTypeFixed, 5000)
	perUser.UsageLimitPerUser = intPtr(1)

	minOrder := activeCoupon(enums.CouponTypeFixed, 5000)
	minOrder.MinOrderAmount = 50000

	tests := []struct {
		name    string
		repo    *stubCouponRepo
		message string
	}{
		{"unknown code", &stubCouponRepo{findErr: gorm.ErrRecordNotFound}, "invalid coupon"},
		{"inactive", &stubCouponRepo{coupon: inactive}, "invalid coupon"},
		{"expired", &stubCouponRepo{coupon: expired}, "coupon expired"},
		{"usage limit", &stubCouponRepo{coupon: exhausted}, "coupon usage limit exceeded"},
		{"per-user limit", &stubCouponRepo{coupon: perUser, redemptions: 1}, "coupon usage limit reached for this account"},
		{"minimum order", &stubCouponRepo{coupon: minOrder}, "minimum order amount not met"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := NewService(tc.repo)
			_, err := svc.Validate(context.Background(), "SAVE50", 10000, uuid.New())
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestRedeemClaimsUsageAndRecordsLedger(t *testing.T) {
	repo := &stubCouponRepo{incrementOK: true}
	svc, _ := NewService(repo)
	coupon := activeCoupon(enums.CouponTypeFixed, 5000)
	userID, orderID := uuid.New(), uuid.New()

	err := svc.Redeem(context.Background(), nil, coupon, userID, orderID)
	require.NoError(t, err)
	assert.True(t, repo.claimed)
	require.NotNil(t, repo.redemption)
	assert.Equal(t, coupon.ID, repo.redemption.CouponID)
	assert.Equal(t, userID, repo.redemption.UserID)
	assert.Equal(t, orderID, repo.redemption.OrderID)
}

func TestRedeemLostRaceReturnsIntegrityError(t *testing.T) {
	svc, _ := NewService(&stubCouponRepo{incrementOK: false})

	err := svc.Redeem(context.Background(), nil, activeCoupon(enums.CouponTypeFixed, 5000), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeIntegrity))
}

package revenue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
	"github.com/ovenmade/bakemart-backend/pkg/types"
)

func paidOrder(total, delivery, discount, wallet int64, cut int64, items ...types.OrderItem) models.Order {
	return models.Order{
		ID:             uuid.New(),
		Items:          items,
		Subtotal:       total,
		Discount:       discount,
		DeliveryCharge: delivery,
		WalletUsed:     wallet,
		TotalAmount:    total,
		PaymentStatus:  enums.PaymentStatusPaid,
		StoreSnapshot:  &types.StoreSnapshot{StoreID: uuid.New(), AdminCutPercent: cut},
	}
}

func TestAggregateRollsUpWindows(t *testing.T) {
	paid := []models.Order{
		paidOrder(100000, 5000, 2000, 10000, 20,
			types.OrderItem{Price: 100000, Quantity: 1}),
		paidOrder(50000, 0, 0, 0, 50,
			types.OrderItem{Price: 50000, Quantity: 1}),
	}
	refunded := []models.Order{
		{
			ID: uuid.New(),
			CancellationRequest: &types.CancellationRequest{
				Status:             enums.CancellationStatusApproved,
				RefundAmount:       15000,
				WalletRefundAmount: 5000,
			},
		},
	}

	summary, err := Aggregate(paid, refunded)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.OrderCount)
	assert.Equal(t, int64(150000), summary.GrossRevenue)
	// 20% of 100000 plus 50% of 50000.
	assert.Equal(t, int64(45000), summary.PlatformRevenue)
	assert.Equal(t, int64(105000), summary.VendorRevenue)
	assert.Equal(t, int64(5000), summary.Delivery)
	assert.Equal(t, int64(2000), summary.Coupons)
	assert.Equal(t, int64(10000), summary.Wallet)
	assert.Equal(t, int64(20000), summary.Refunds)
	// platform + delivery + addons - refunds - coupons - wallet
	assert.Equal(t, int64(45000+5000+0-20000-2000-10000), summary.NetProfit)
}

func TestAggregateCollectsAnomaliesWithoutFailing(t *testing.T) {
	bad := paidOrder(10000, 0, 0, 0, 250,
		types.OrderItem{Price: 10000, Quantity: 1})

	summary, err := Aggregate([]models.Order{bad}, nil)
	require.Error(t, err)
	assert.Equal(t, 1, summary.OrderCount)
	assert.Equal(t, int64(10000), summary.GrossRevenue)
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

	assert.True(t, WindowStart("lifetime", now).IsZero())
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), WindowStart("monthly", now))
	assert.Equal(t, now.AddDate(0, 0, -7), WindowStart("weekly", now))
}

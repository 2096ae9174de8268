package revenue

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/types"
)

func TestSplitAmountPartitionsExactly(t *testing.T) {
	cases := []struct {
		name     string
		revenue  int64
		cut      int64
		platform int64
	}{
		{"even split", 10000, 50, 5000},
		{"fifteen percent", 100000, 15, 15000},
		{"rounding goes to nearest", 9999, 33, 3300},
		{"zero cut", 10000, 0, 0},
		{"full cut", 10000, 100, 10000},
		{"cut above hundred clamps", 10000, 150, 10000},
		{"zero revenue", 0, 50, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			split := SplitAmount(tc.revenue, tc.cut)
			assert.Equal(t, tc.platform, split.Platform)
			assert.Equal(t, tc.revenue, split.Platform+split.Vendor, "partition must be exact")
		})
	}
}

func TestSplitOrderUsesFrozenRate(t *testing.T) {
	order := &models.Order{
		Items: []types.OrderItem{
			{ProductID: uuid.New(), Price: 30000, Quantity: 2},
			{ProductID: uuid.New(), Price: 12500, Quantity: 1},
		},
		StoreSnapshot: &types.StoreSnapshot{StoreID: uuid.New(), AdminCutPercent: 20},
	}

	split := SplitOrder(order)
	// 20% of 60000 plus 20% of 12500.
	assert.Equal(t, int64(14500), split.Platform)
	assert.Equal(t, int64(58000), split.Vendor)
}

func TestSplitOrderWithoutStoreIsAllPlatform(t *testing.T) {
	order := &models.Order{
		Items: []types.OrderItem{{ProductID: uuid.New(), Price: 50000, Quantity: 1}},
	}

	split := SplitOrder(order)
	assert.Equal(t, int64(50000), split.Platform)
	assert.Zero(t, split.Vendor)
}

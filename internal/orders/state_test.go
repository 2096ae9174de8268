package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenmade/bakemart-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
)

func TestResolveHappyPath(t *testing.T) {
	cases := []struct {
		action Action
		from   enums.OrderStatus
		role   enums.UserRole
		to     enums.OrderStatus
	}{
		{ActionVerifyPayment, enums.OrderStatusPunched, enums.UserRoleAdmin, enums.OrderStatusPunched},
		{ActionVerifyPayment, enums.OrderStatusDelivered, enums.UserRoleAdmin, enums.OrderStatusDelivered},
		{ActionVerifyOrder, enums.OrderStatusPunched, enums.UserRoleAdmin, enums.OrderStatusPreparing},
		{ActionMarkOutForDelivery, enums.OrderStatusPreparing, enums.UserRoleVendor, enums.OrderStatusAwaitingAgent},
		{ActionMarkOutForDelivery, enums.OrderStatusPreparing, enums.UserRoleAdmin, enums.OrderStatusAwaitingAgent},
		{ActionAccept, enums.OrderStatusAwaitingAgent, enums.UserRoleAgent, enums.OrderStatusOutForDelivery},
		{ActionVerifyOTP, enums.OrderStatusOutForDelivery, enums.UserRoleAgent, enums.OrderStatusDelivered},
	}
	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			to, err := Resolve(tc.action, tc.from, tc.role)
			require.NoError(t, err)
			assert.Equal(t, tc.to, to)
		})
	}
}

func TestResolveWrongRole(t *testing.T) {
	_, err := Resolve(ActionVerifyOrder, enums.OrderStatusPunched, enums.UserRoleCustomer)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	// Admin cannot stand in for the delivery agent.
	_, err = Resolve(ActionAccept, enums.OrderStatusAwaitingAgent, enums.UserRoleAdmin)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestResolveWrongState(t *testing.T) {
	_, err := Resolve(ActionVerifyOTP, enums.OrderStatusPunched, enums.UserRoleAgent)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = Resolve(ActionVerifyOrder, enums.OrderStatusCancelled, enums.UserRoleAdmin)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = Resolve(ActionVerifyPayment, enums.OrderStatusPreparing, enums.UserRoleAdmin)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestParseAction(t *testing.T) {
	for _, raw := range []string{"verify_payment", "verify_order", "mark_out_for_delivery", "accept", "verify_otp"} {
		action, err := ParseAction(raw)
		require.NoError(t, err)
		assert.Equal(t, Action(raw), action)
	}

	_, err := ParseAction("teleport")
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[otp] = true
	}
	// 50 draws from a million values colliding every time is not plausible.
	assert.Greater(t, len(seen), 1)
}

func TestVerifyOTP(t *testing.T) {
	assert.True(t, VerifyOTP("123456", "123456"))
	assert.False(t, VerifyOTP("123456", "654321"))
	assert.False(t, VerifyOTP("123456", ""))
	assert.False(t, VerifyOTP("", ""))
}

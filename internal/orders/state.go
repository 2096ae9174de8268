package orders

import (
	"fmt"

	"github.com/ovenmade/bakemart-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
)

// Action names a state machine event submitted through the transition
// endpoint. The strings are part of the API contract.
type Action string

const (
	ActionVerifyPayment      Action = "verify_payment"
	ActionVerifyOrder        Action = "verify_order"
	ActionMarkOutForDelivery Action = "mark_out_for_delivery"
	ActionAccept             Action = "accept"
	ActionVerifyOTP          Action = "verify_otp"
)

// ParseAction converts raw input into an Action.
func ParseAction(value string) (Action, error) {
	switch Action(value) {
	case ActionVerifyPayment, ActionVerifyOrder, ActionMarkOutForDelivery, ActionAccept, ActionVerifyOTP:
		return Action(value), nil
	}
	return "", fmt.Errorf("invalid order action %q", value)
}

type transition struct {
	from enums.OrderStatus
	to   enums.OrderStatus
	role enums.UserRole
}

// transitions is the lifecycle table. verify_payment is a payment status
// flip and never moves the order: it confirms an online payment while the
// order is punched, and reconciles COD cash after delivery.
var transitions = map[Action][]transition{
	ActionVerifyPayment: {
		{from: enums.OrderStatusPunched, to: enums.OrderStatusPunched, role: enums.UserRoleAdmin},
		{from: enums.OrderStatusDelivered, to: enums.OrderStatusDelivered, role: enums.UserRoleAdmin},
	},
	ActionVerifyOrder:        {{from: enums.OrderStatusPunched, to: enums.OrderStatusPreparing, role: enums.UserRoleAdmin}},
	ActionMarkOutForDelivery: {{from: enums.OrderStatusPreparing, to: enums.OrderStatusAwaitingAgent, role: enums.UserRoleVendor}},
	ActionAccept:             {{from: enums.OrderStatusAwaitingAgent, to: enums.OrderStatusOutForDelivery, role: enums.UserRoleAgent}},
	ActionVerifyOTP:          {{from: enums.OrderStatusOutForDelivery, to: enums.OrderStatusDelivered, role: enums.UserRoleAgent}},
}

// Resolve checks the action against the current status and the actor's role,
// returning the target status. Admins may also drive vendor transitions.
func Resolve(action Action, current enums.OrderStatus, role enums.UserRole) (enums.OrderStatus, error) {
	rows, ok := transitions[action]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown action %q", action))
	}
	required := rows[0].role
	if role != required && !(role == enums.UserRoleAdmin && required == enums.UserRoleVendor) {
		return "", pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("action %q requires %s role", action, required))
	}
	for _, t := range rows {
		if current == t.from {
			return t.to, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("action %q not permitted from status %q", action, current))
}

package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/internal/payments"
	"github.com/ovenmade/bakemart-backend/pkg/types"
)

// CreateOrderInput is the checkout payload. PaymentDetails is required for
// online payments and rejected for COD.
type CreateOrderInput struct {
	ShippingAddress types.Address     `json:"shippingAddress" validate:"required"`
	PaymentMethod   string            `json:"paymentMethod" validate:"required"`
	CouponCode      string            `json:"couponCode,omitempty"`
	LocationID      *uuid.UUID        `json:"locationId,omitempty"`
	UseWallet       bool              `json:"useWallet,omitempty"`
	WalletAmount    int64             `json:"walletUsed,omitempty" validate:"gte=0"`
	Occasion        *string           `json:"occasion,omitempty"`
	OccasionDate    *time.Time        `json:"occasionDate,omitempty"`
	CakeMessage     *string           `json:"cakeMessage,omitempty"`
	PaymentDetails  *payments.Details `json:"paymentDetails,omitempty"`
}

// TransitionInput drives the state machine endpoint.
type TransitionInput struct {
	Action string `json:"action" validate:"required"`
	OTP    string `json:"otp,omitempty"`
}

// CancelOrderInput is the customer's cancellation request.
type CancelOrderInput struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// ResolveCancellationInput is the admin's decision on a pending request.
type ResolveCancellationInput struct {
	Action             string `json:"action" validate:"required,oneof=approve reject"`
	RefundAmount       *int64 `json:"refundAmount,omitempty" validate:"omitempty,gte=0"`
	WalletRefundAmount *int64 `json:"walletRefundAmount,omitempty" validate:"omitempty,gte=0"`
	AdminNote          string `json:"adminNote,omitempty" validate:"max=500"`
}

// Actor identifies the authenticated caller for service operations.
type Actor struct {
	UserID  uuid.UUID
	Role    string
	StoreID *uuid.UUID
}

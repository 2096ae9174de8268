package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/pkg/enums"
	"github.com/ovenmade/bakemart-backend/pkg/types"
)

// Order is the central entity: a priced, stateful snapshot of a cart. Money
// fields are integer paise. Orders are created atomically at checkout,
// mutated only through state machine transitions, and never deleted.
type Order struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`

	StoreID       *uuid.UUID           `gorm:"column:store_id;type:uuid;index" json:"storeId,omitempty"`
	StoreSnapshot *types.StoreSnapshot `gorm:"column:store_snapshot;type:jsonb;serializer:json" json:"storeSnapshot,omitempty"`

	Items  []types.OrderItem  `gorm:"column:items;type:jsonb;serializer:json;not null" json:"items"`
	Addons []types.OrderAddon `gorm:"column:addons;type:jsonb;serializer:json" json:"addons,omitempty"`

	Subtotal       int64 `gorm:"column:subtotal_paise;not null" json:"subtotal"`
	Discount       int64 `gorm:"column:discount_paise;not null;default:0" json:"discount"`
	DeliveryCharge int64 `gorm:"column:delivery_charge_paise;not null;default:0" json:"deliveryCharge"`
	WalletUsed     int64 `gorm:"column:wallet_used_paise;not null;default:0" json:"walletUsed"`
	WalletCashback int64 `gorm:"column:wallet_cashback_paise;not null;default:0" json:"walletCashback"`
	TotalAmount    int64 `gorm:"column:total_amount_paise;not null" json:"totalAmount"`

	OrderStatus   enums.OrderStatus   `gorm:"column:order_status;type:text;not null;default:'punched'" json:"orderStatus"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'Pending'" json:"paymentStatus"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null" json:"paymentMethod"`

	CouponCode *string `gorm:"column:coupon_code" json:"couponCode,omitempty"`

	ShippingAddress types.Address `gorm:"column:shipping_address;type:jsonb;serializer:json;not null" json:"shippingAddress"`
	Occasion        *string       `gorm:"column:occasion" json:"occasion,omitempty"`
	OccasionDate    *time.Time    `gorm:"column:occasion_date" json:"occasionDate,omitempty"`
	CakeMessage     *string       `gorm:"column:cake_message" json:"cakeMessage,omitempty"`

	// OTP is generated once at creation and never rotated. It gates the
	// Delivered transition for every order, COD included.
	OTP string `gorm:"column:otp;not null" json:"-"`

	DeliveryAgentID *uuid.UUID `gorm:"column:delivery_agent_id;type:uuid;index" json:"deliveryAgentId,omitempty"`

	CancellationRequest *types.CancellationRequest `gorm:"column:cancellation_request;type:jsonb;serializer:json" json:"cancellationRequest,omitempty"`

	GatewayOrderID   *string `gorm:"column:gateway_order_id" json:"gatewayOrderId,omitempty"`
	GatewayPaymentID *string `gorm:"column:gateway_payment_id" json:"gatewayPaymentId,omitempty"`

	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelledAt,omitempty"`
}

// AddonsTotal sums the add-on line totals.
func (o Order) AddonsTotal() int64 {
	var total int64
	for _, addon := range o.Addons {
		total += addon.LineTotal()
	}
	return total
}

// AdminCutPercent returns the commission rate frozen at creation, defaulting
// to 100 for admin-direct orders without a store.
func (o Order) AdminCutPercent() int64 {
	if o.StoreSnapshot == nil {
		return 100
	}
	return o.StoreSnapshot.AdminCutPercent
}

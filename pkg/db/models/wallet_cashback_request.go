package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/pkg/enums"
)

// WalletCashbackRequest records money promised by a wallet-type coupon. The
// user's balance moves only when an admin approves the request.
type WalletCashbackRequest struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	OrderID    uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index" json:"orderId"`
	Amount     int64                `gorm:"column:amount_paise;not null" json:"requestedAmount"`
	CouponCode string               `gorm:"column:coupon_code;not null" json:"couponCode"`
	Status     enums.CashbackStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	ApprovedAt *time.Time           `gorm:"column:approved_at" json:"approvedAt,omitempty"`
}

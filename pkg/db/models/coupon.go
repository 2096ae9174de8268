package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/pkg/enums"
)

// Coupon holds a redeemable code. UsedCount is a shared mutable counter and
// must only ever be advanced through a conditional UPDATE.
type Coupon struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code              string           `gorm:"column:code;not null;uniqueIndex" json:"code"`
	DiscountType      enums.CouponType `gorm:"column:discount_type;type:text;not null" json:"discountType"`
	// DiscountValue is paise for fixed and wallet coupons, a percent for
	// percentage coupons.
	DiscountValue     int64            `gorm:"column:discount_value;not null" json:"discountValue"`
	MinOrderAmount    int64            `gorm:"column:min_order_amount_paise;not null;default:0" json:"minOrderAmount"`
	MaxDiscount       *int64           `gorm:"column:max_discount_paise" json:"maxDiscount,omitempty"`
	ExpiryDate        time.Time        `gorm:"column:expiry_date;not null" json:"expiryDate"`
	UsageLimit        *int             `gorm:"column:usage_limit" json:"usageLimit,omitempty"`
	UsedCount         int              `gorm:"column:used_count;not null;default:0" json:"usedCount"`
	UsageLimitPerUser *int             `gorm:"column:usage_limit_per_user" json:"usageLimitPerUser,omitempty"`
	IsActive          bool             `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// CouponRedemption is the per-user usage ledger backing the per-user cap.
type CouponRedemption struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID  uuid.UUID `gorm:"column:coupon_id;type:uuid;not null;index:idx_coupon_redemptions_coupon_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_coupon_redemptions_coupon_user"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/pkg/enums"
)

// User is the canonical identity entity. WalletBalance is drawn down at
// checkout and credited only by approved cashbacks or approved refunds, both
// through conditional updates.
type User struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email         string         `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	Name          string         `gorm:"column:name;not null" json:"name"`
	Phone         *string        `gorm:"column:phone" json:"phone,omitempty"`
	Role          enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'" json:"role"`
	WalletBalance int64          `gorm:"column:wallet_balance_paise;not null;default:0" json:"walletBalance"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a vendor bakery. AdminCutPercent is the platform commission the
// revenue split applies to each item sold from this store.
type Store struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerUserID     uuid.UUID `gorm:"column:owner_user_id;type:uuid;not null;index" json:"ownerUserId"`
	Name            string    `gorm:"column:name;not null" json:"name"`
	Address         string    `gorm:"column:address;not null" json:"address"`
	Phone           string    `gorm:"column:phone;not null" json:"phone"`
	AdminCutPercent int64     `gorm:"column:admin_cut_percentage;not null;default:0" json:"adminCutPercentage"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

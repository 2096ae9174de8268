package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/pkg/types"
)

// Cart is the priced snapshot checkout consumes. Items carry the price
// already resolved for the chosen weight variant; checkout freezes them into
// the order and clears the cart in the same transaction.
type Cart struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	StoreID   *uuid.UUID         `gorm:"column:store_id;type:uuid" json:"storeId,omitempty"`
	Items     []types.OrderItem  `gorm:"column:items;type:jsonb;serializer:json;not null" json:"items"`
	Addons    []types.OrderAddon `gorm:"column:addons;type:jsonb;serializer:json" json:"addons,omitempty"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// IsEmpty reports whether the cart has no purchasable items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

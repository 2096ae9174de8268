package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/pkg/enums"
)

// OrderItem is the frozen line item snapshot. Price is captured at checkout
// and never re-derived from the live catalog.
type OrderItem struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Image     string    `json:"image,omitempty"`
	Quantity  int       `json:"quantity"`
	Weight    string    `json:"weight,omitempty"`
}

// LineTotal returns price times quantity for the item.
func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// OrderAddon is the frozen add-on snapshot parallel to the item array.
type OrderAddon struct {
	AddonID  uuid.UUID `json:"addonId"`
	Name     string    `json:"name"`
	Price    int64     `json:"price"`
	Quantity int       `json:"quantity"`
}

// LineTotal returns price times quantity for the add-on.
func (a OrderAddon) LineTotal() int64 {
	return a.Price * int64(a.Quantity)
}

// StoreSnapshot freezes the vendor's details at order creation, including
// the commission rate the settlement replay uses. Store records may change
// later; the order must not.
type StoreSnapshot struct {
	StoreID         uuid.UUID `json:"storeId"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	Phone           string    `json:"phone"`
	AdminCutPercent int64     `json:"adminCutPercentage"`
}

// CancellationRequest is the optional sub-document driving the cancellation
// workflow. A nil pointer on the order means no request was ever made.
type CancellationRequest struct {
	Reason             string                   `json:"reason"`
	Status             enums.CancellationStatus `json:"status"`
	RefundAmount       int64                    `json:"refundAmount"`
	WalletRefundAmount int64                    `json:"walletRefundAmount"`
	RequestedAt        time.Time                `json:"requestedAt"`
	ProcessedAt        *time.Time               `json:"processedAt,omitempty"`
	AdminNote          string                   `json:"adminNote,omitempty"`
}

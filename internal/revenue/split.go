package revenue

import (
	"github.com/shopspring/decimal"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
)

// Split is the platform/vendor partition of an order's item revenue.
// Platform + Vendor always equals the item revenue exactly; rounding loss
// goes to the vendor side.
type Split struct {
	Platform int64
	Vendor   int64
}

var oneHundred = decimal.NewFromInt(100)

// SplitAmount partitions revenue by the commission percentage.
func SplitAmount(revenue, adminCutPercent int64) Split {
	if revenue <= 0 {
		return Split{}
	}
	if adminCutPercent <= 0 {
		return Split{Vendor: revenue}
	}
	if adminCutPercent >= 100 {
		return Split{Platform: revenue}
	}

	platform := decimal.NewFromInt(revenue).
		Mul(decimal.NewFromInt(adminCutPercent)).
		DivRound(oneHundred, 0).
		IntPart()

	return Split{Platform: platform, Vendor: revenue - platform}
}

// SplitOrder replays the commission split over an order's frozen line items
// using the rate captured in the store snapshot. Orders without a snapshot
// are admin-direct catalog sales and yield pure platform revenue.
func SplitOrder(order *models.Order) Split {
	cut := order.AdminCutPercent()

	var total Split
	for _, item := range order.Items {
		s := SplitAmount(item.LineTotal(), cut)
		total.Platform += s.Platform
		total.Vendor += s.Vendor
	}
	return total
}

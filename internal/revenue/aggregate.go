package revenue

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
)

// Summary is the financial rollup for one time window. All amounts are
// paise. NetProfit is platform revenue plus delivery and add-ons, minus
// refunds, coupon discounts, and wallet spend.
type Summary struct {
	OrderCount      int   `json:"orderCount"`
	GrossRevenue    int64 `json:"grossRevenue"`
	PlatformRevenue int64 `json:"platformRevenue"`
	VendorRevenue   int64 `json:"vendorRevenue"`
	Delivery        int64 `json:"delivery"`
	Coupons         int64 `json:"coupons"`
	Wallet          int64 `json:"wallet"`
	AddonsTotal     int64 `json:"addonsTotal"`
	Refunds         int64 `json:"refunds"`
	NetProfit       int64 `json:"netProfit"`
}

// WindowStart returns the lower bound for each reporting window. A zero
// time means no bound.
func WindowStart(window string, now time.Time) time.Time {
	switch window {
	case "monthly":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "weekly":
		return now.AddDate(0, 0, -7)
	default:
		return time.Time{}
	}
}

// Aggregate rolls paid orders and approved cancellations into a Summary.
// Orders with anomalous data are still counted; the anomalies are collected
// and returned for logging so one bad document cannot blank the dashboard.
func Aggregate(paid []models.Order, refunded []models.Order) (Summary, error) {
	var summary Summary
	var anomalies error

	for i := range paid {
		order := &paid[i]

		summary.OrderCount++
		summary.GrossRevenue += order.TotalAmount
		summary.Delivery += order.DeliveryCharge
		summary.Coupons += order.Discount
		summary.Wallet += order.WalletUsed
		summary.AddonsTotal += order.AddonsTotal()

		if cut := order.AdminCutPercent(); cut < 0 || cut > 100 {
			anomalies = multierr.Append(anomalies,
				fmt.Errorf("order %s: commission rate %d out of range", order.ID, cut))
		}

		split := SplitOrder(order)
		summary.PlatformRevenue += split.Platform
		summary.VendorRevenue += split.Vendor
	}

	for i := range refunded {
		order := &refunded[i]
		if order.CancellationRequest == nil {
			anomalies = multierr.Append(anomalies,
				fmt.Errorf("order %s: refund row without cancellation request", order.ID))
			continue
		}
		summary.Refunds += order.CancellationRequest.RefundAmount + order.CancellationRequest.WalletRefundAmount
	}

	summary.NetProfit = summary.PlatformRevenue + summary.Delivery + summary.AddonsTotal -
		summary.Refunds - summary.Coupons - summary.Wallet

	return summary, anomalies
}

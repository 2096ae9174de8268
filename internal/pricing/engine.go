package pricing

import (
	"github.com/ovenmade/bakemart-backend/pkg/types"

	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
)

// Input carries everything the quote needs. Amounts are paise. Discount and
// WalletCashback come from coupon validation and are already clamped there;
// DeliveryFee comes from the fee resolver.
type Input struct {
	Items          []types.OrderItem
	Addons         []types.OrderAddon
	DeliveryFee    int64
	Discount       int64
	WalletCashback int64
	WalletRequest  int64
	WalletBalance  int64
}

// Quote is the fully derived price breakdown persisted onto the order.
type Quote struct {
	Subtotal       int64
	Discount       int64
	DeliveryCharge int64
	WalletUsed     int64
	WalletCashback int64
	Total          int64
	Payable        int64
}

// Compute derives the order totals. It is a pure function so the same input
// always produces the same breakdown, and the caller decides inside which
// transaction the result is persisted.
func Compute(in Input) (Quote, error) {
	if len(in.Items) == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	var subtotal int64
	for _, item := range in.Items {
		if item.Price < 0 || item.Quantity <= 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid item price or quantity")
		}
		subtotal += item.LineTotal()
	}
	for _, addon := range in.Addons {
		if addon.Price < 0 || addon.Quantity <= 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid addon price or quantity")
		}
		subtotal += addon.LineTotal()
	}

	if in.Discount < 0 || in.DeliveryFee < 0 || in.WalletRequest < 0 || in.WalletCashback < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "negative pricing component")
	}

	discount := in.Discount
	if discount > subtotal {
		discount = subtotal
	}

	total := subtotal - discount + in.DeliveryFee

	walletUsed := in.WalletRequest
	if walletUsed > in.WalletBalance {
		walletUsed = in.WalletBalance
	}
	if walletUsed > total {
		walletUsed = total
	}

	return Quote{
		Subtotal:       subtotal,
		Discount:       discount,
		DeliveryCharge: in.DeliveryFee,
		WalletUsed:     walletUsed,
		WalletCashback: in.WalletCashback,
		Total:          total,
		Payable:        total - walletUsed,
	}, nil
}

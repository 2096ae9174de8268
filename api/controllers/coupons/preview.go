package coupons

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/api/middleware"
	"github.com/ovenmade/bakemart-backend/api/responses"
	"github.com/ovenmade/bakemart-backend/api/validators"
	internalcoupons "github.com/ovenmade/bakemart-backend/internal/coupons"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
	"github.com/ovenmade/bakemart-backend/pkg/logger"
)

type previewRequest struct {
	CouponCode string `json:"couponCode" validate:"required"`
	Subtotal   int64  `json:"subtotal" validate:"required,gt=0"`
}

type previewResponse struct {
	CouponCode     string `json:"couponCode"`
	DiscountType   string `json:"discountType"`
	Discount       int64  `json:"discount"`
	WalletCashback int64  `json:"walletCashback"`
}

// Preview validates a coupon against a subtotal without redeeming it, so the
// client can show the discount before checkout.
func Preview(svc internalcoupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authenticated user"))
			return
		}

		var input previewRequest
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Validate(r.Context(), input.CouponCode, input.Subtotal, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, previewResponse{
			CouponCode:     result.Coupon.Code,
			DiscountType:   result.Coupon.DiscountType.String(),
			Discount:       result.Discount,
			WalletCashback: result.WalletCashback,
		})
	}
}

package dashboard

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/api/middleware"
	"github.com/ovenmade/bakemart-backend/api/responses"
	"github.com/ovenmade/bakemart-backend/internal/revenue"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
	"github.com/ovenmade/bakemart-backend/pkg/logger"
)

// Admin returns the platform-wide financial rollup.
func Admin(svc revenue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.AdminDashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// Vendor returns the rollup scoped to the vendor's own store. The store id
// comes from the token, never from the request.
func Vendor(svc revenue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := uuid.Parse(middleware.StoreIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor has no store"))
			return
		}

		report, err := svc.VendorFinancial(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

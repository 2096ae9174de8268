package cashbacks

import (
	"net/http"
	"strings"

	"github.com/ovenmade/bakemart-backend/api/responses"
	"github.com/ovenmade/bakemart-backend/api/validators"
	"github.com/ovenmade/bakemart-backend/internal/wallet"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
	"github.com/ovenmade/bakemart-backend/pkg/logger"
)

// List returns cashback requests, optionally filtered by status.
func List(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.CashbackStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseCashbackStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			status = &parsed
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requests, err := svc.ListCashbackRequests(r.Context(), status, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requests)
	}
}

// Approve credits a pending cashback to the user's wallet.
func Approve(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		approved, err := svc.ApproveCashback(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, approved)
	}
}

package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ovenmade/bakemart-backend/pkg/config"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
)

// Details carries the gateway identifiers and signature a client submits
// with an online payment.
type Details struct {
	GatewayOrderID   string `json:"gatewayOrderId" validate:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}

// Verifier recomputes gateway signatures with the server-held secret. The
// gateway's own transaction processing stays external; only this contract
// is consumed.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a verifier from the gateway configuration.
func NewVerifier(cfg config.GatewayConfig) (*Verifier, error) {
	if strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, fmt.Errorf("gateway key secret required")
	}
	return &Verifier{secret: []byte(cfg.KeySecret)}, nil
}

// Verify checks the client-supplied signature against
// HMAC-SHA256(orderID|paymentID). A mismatch is a hard rejection; callers
// must not persist an order after it.
func (v *Verifier) Verify(details Details) error {
	if strings.TrimSpace(details.GatewayOrderID) == "" ||
		strings.TrimSpace(details.GatewayPaymentID) == "" ||
		strings.TrimSpace(details.Signature) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "incomplete payment details")
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(details.GatewayOrderID + "|" + details.GatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(details.Signature))) {
		return pkgerrors.New(pkgerrors.CodePaymentVerification, "payment signature mismatch")
	}
	return nil
}

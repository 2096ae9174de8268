package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/ovenmade/bakemart-backend/pkg/config"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	verifier, err := NewVerifier(config.GatewayConfig{KeySecret: "topsecret"})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	details := Details{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		Signature:        sign("topsecret", "order_abc", "pay_xyz"),
	}
	if err := verifier.Verify(details); err != nil {
		t.Fatalf("expected valid signature to pass, got %v", err)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	verifier, err := NewVerifier(config.GatewayConfig{KeySecret: "topsecret"})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	details := Details{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		Signature:        sign("wrong-secret", "order_abc", "pay_xyz"),
	}
	err = verifier.Verify(details)
	if !pkgerrors.IsCode(err, pkgerrors.CodePaymentVerification) {
		t.Fatalf("expected payment verification failure, got %v", err)
	}
}

func TestVerifyRejectsSwappedIdentifiers(t *testing.T) {
	verifier, _ := NewVerifier(config.GatewayConfig{KeySecret: "topsecret"})

	details := Details{
		GatewayOrderID:   "pay_xyz",
		GatewayPaymentID: "order_abc",
		Signature:        sign("topsecret", "order_abc", "pay_xyz"),
	}
	if err := verifier.Verify(details); err == nil {
		t.Fatal("expected swapped identifiers to fail verification")
	}
}

func TestVerifyRejectsIncompleteDetails(t *testing.T) {
	verifier, _ := NewVerifier(config.GatewayConfig{KeySecret: "topsecret"})

	err := verifier.Verify(Details{GatewayOrderID: "order_abc"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier(config.GatewayConfig{}); err == nil {
		t.Fatal("expected missing secret to fail")
	}
}

package service

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"sort"
)

// PaymentSignatureVerifier implements ports.PaymentVerifier using
// HMAC-SHA256 over "orderID|paymentID", the payment gateway's scheme.
type PaymentSignatureVerifier struct {
	secret []byte
}

// NewPaymentSignatureVerifier creates a verifier with the gateway key secret.
func NewPaymentSignatureVerifier(secret string) *PaymentSignatureVerifier {
	return &PaymentSignatureVerifier{secret: []byte(secret)}
}

// Verify checks the gateway signature with a constant-time comparison.
func (v *PaymentSignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CallbackSignatureVerifier implements ports.CallbackVerifier using the chat
// gateway's scheme: HMAC-SHA1 over the full callback URL followed by every
// form parameter, key then value, in key order; base64 encoded.
type CallbackSignatureVerifier struct {
	authToken []byte
}

// NewCallbackSignatureVerifier creates a verifier with the gateway auth token.
func NewCallbackSignatureVerifier(authToken string) *CallbackSignatureVerifier {
	return &CallbackSignatureVerifier{authToken: []byte(authToken)}
}

// Verify checks a delivery callback signature.
func (v *CallbackSignatureVerifier) Verify(url string, params map[string]string, signature string) bool {
	if signature == "" {
		return false
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, v.authToken)
	mac.Write([]byte(url))
	for _, k := range keys {
		mac.Write([]byte(k))
		mac.Write([]byte(params[k]))
	}
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

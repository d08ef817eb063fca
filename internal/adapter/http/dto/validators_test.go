package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := PaymentVerifyRequest{
		Category:  "  DONATION  ",
		PaymentID: " pay_001 ",
		OrderID:   " order_001 ",
		Signature: "  abc  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "DONATION", req.Category)
	assert.Equal(t, "pay_001", req.PaymentID)
	assert.Equal(t, "order_001", req.OrderID)
	assert.Equal(t, "abc", req.Signature)
}

func TestSanitizeStruct_DescendsIntoNestedStructs(t *testing.T) {
	req := PaymentVerifyRequest{
		Contact: ContactRequest{
			Name:  "  Ramesh Kumar  ",
			Phone: " +919876543210 ",
			Email: " ramesh@example.com ",
		},
		Donation: &DonationRequest{
			Purpose: "  Annadana Seva  ",
			PAN:     " ABCDE1234F ",
		},
	}
	SanitizeStruct(&req)

	assert.Equal(t, "Ramesh Kumar", req.Contact.Name)
	assert.Equal(t, "+919876543210", req.Contact.Phone)
	assert.Equal(t, "ramesh@example.com", req.Contact.Email)
	assert.Equal(t, "Annadana Seva", req.Donation.Purpose)
	assert.Equal(t, "ABCDE1234F", req.Donation.PAN)
}

func TestSanitizeStruct_KeepsNamesVerbatim(t *testing.T) {
	// Donor names flow into message bodies and certificates unescaped.
	req := ContactRequest{Name: "  D'Souza & Sons  "}
	SanitizeStruct(&req)
	assert.Equal(t, "D'Souza & Sons", req.Name)
}

func TestSanitizeStruct_NilDetailsAreNoOp(t *testing.T) {
	req := PaymentVerifyRequest{Category: "DONATION"}
	SanitizeStruct(&req)
	assert.Nil(t, req.Booking)
	assert.Nil(t, req.Consultation)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom validator tests ---

func TestE164ish_Valid(t *testing.T) {
	cases := []string{
		"+919876543210",
		"9876543210",
		"+1 (415) 555-0100",
		"080-2345-6789",
		"0044 20 7946 0958",
	}
	for _, tc := range cases {
		assert.True(t, e164ishRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestE164ish_Invalid(t *testing.T) {
	cases := []string{
		"",
		"12345",            // too short
		"not-a-number",     // letters
		"+91;9876543210",   // semicolon
		"98765432101234567890123", // too long
	}
	for _, tc := range cases {
		assert.False(t, e164ishRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestDeliveryCallbackForm_ExternalID(t *testing.T) {
	f := DeliveryCallbackForm{MessageSid: "SM123", SmsSid: "SM456"}
	assert.Equal(t, "SM123", f.ExternalID())

	f = DeliveryCallbackForm{SmsSid: "SM456"}
	assert.Equal(t, "SM456", f.ExternalID())

	f = DeliveryCallbackForm{}
	assert.Equal(t, "", f.ExternalID())
}

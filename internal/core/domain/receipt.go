package domain

import (
	"fmt"
	"regexp"
	"time"
)

// receiptPrefixes maps each category to its fixed receipt-code prefix.
var receiptPrefixes = map[Category]string{
	CategoryDonation:     "DN",
	CategoryPoojaBooking: "PB",
	CategoryConsultation: "AC",
	CategoryPariharaRite: "PARI",
}

var receiptCodeRe = regexp.MustCompile(`^(DN|PB|AC|PARI)-\d{6}-\d{4}$`)

// ReceiptPrefix returns the fixed prefix for a category.
func ReceiptPrefix(c Category) string {
	return receiptPrefixes[c]
}

// DateBucket formats t as the DDMMYY bucket that scopes daily sequences.
func DateBucket(t time.Time) string {
	return t.Format("020106")
}

// Receipt is a minted, immutable receipt identity. For a given (category,
// date bucket) no two receipts share a sequence.
type Receipt struct {
	Category   Category `json:"category"`
	DateBucket string   `json:"date_bucket"` // DDMMYY
	Sequence   int64    `json:"sequence"`
	Code       string   `json:"code"` // <PREFIX>-<DDMMYY>-<SEQ:04d>
}

// NewReceipt builds a Receipt from an allocated sequence number.
func NewReceipt(category Category, dateBucket string, sequence int64) Receipt {
	return Receipt{
		Category:   category,
		DateBucket: dateBucket,
		Sequence:   sequence,
		Code:       fmt.Sprintf("%s-%s-%04d", ReceiptPrefix(category), dateBucket, sequence),
	}
}

// ValidReceiptCode reports whether s looks like a receipt code this service
// could have issued.
func ValidReceiptCode(s string) bool {
	return receiptCodeRe.MatchString(s)
}

// Package ordernum implements the daily order numbering scheme and the short
// display form printed on receipts and reports.
package ordernum

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxDailySequence is the hard ceiling for one calendar day. Sequences
// saturate here instead of erroring, so a day with more orders than this
// produces colliding numbers. Flagged for a product decision; kept as-is
// for receipt compatibility.
const MaxDailySequence = 9999

// Sequence returns the 1-based daily sequence for an order, given how many
// other orders already exist on the same calendar day.
func Sequence(sameDayCount int) int {
	n := sameDayCount + 1
	if n > MaxDailySequence {
		return MaxDailySequence
	}
	return n
}

// Format renders the full order number, e.g. "20231227-0042".
func Format(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d", day.Format("20060102"), seq)
}

// Display derives the short human-facing number from a full order number:
// "20231227-0042" becomes "42". Legacy numbers without a separator are
// handled by peeling a leading YYYYMMDD prefix or, failing that, by
// stripping leading zeros from a purely numeric value. Anything else is
// returned unchanged.
func Display(orderNumber string) string {
	if orderNumber == "" {
		return ""
	}
	if i := strings.Index(orderNumber, "-"); i >= 0 {
		if n, err := strconv.Atoi(orderNumber[i+1:]); err == nil {
			return strconv.Itoa(n)
		}
		return orderNumber
	}
	if len(orderNumber) > 8 && isDigits(orderNumber[:8]) {
		if n, err := strconv.Atoi(orderNumber[8:]); err == nil {
			return strconv.Itoa(n)
		}
		return orderNumber
	}
	if n, err := strconv.Atoi(orderNumber); err == nil {
		return strconv.Itoa(n)
	}
	return orderNumber
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

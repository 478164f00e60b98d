package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Document number prefixes.
const (
	PurchasePrefix = "PO"
	InvoicePrefix  = "INV"
)

// DocumentNumber renders human-readable numbers such as PO-2025-0007.
func DocumentNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// ParseDocumentNumber splits PREFIX-YEAR-SEQ. The prefix may itself contain dashes.
func ParseDocumentNumber(number string) (prefix string, year int, seq int64, ok bool) {
	parts := strings.Split(strings.TrimSpace(number), "-")
	if len(parts) < 3 {
		return "", 0, 0, false
	}
	n := len(parts)
	y, err := strconv.Atoi(parts[n-2])
	if err != nil || y < 1000 || y > 9999 {
		return "", 0, 0, false
	}
	sq, err := strconv.ParseInt(parts[n-1], 10, 64)
	if err != nil || sq <= 0 {
		return "", 0, 0, false
	}
	return strings.Join(parts[:n-2], "-"), y, sq, true
}

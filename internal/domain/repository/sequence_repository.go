package repository

import "context"

// Sequence names.
const (
	SequencePurchase = "purchase"
	SequenceInvoice  = "invoice"
)

// SequenceRepository atomic per-year counters behind poNumber and invoiceNumber.
// Next must run in the same transaction as the insert that consumes the value.
type SequenceRepository interface {
	Next(ctx context.Context, name string, year int) (int64, error)
	// Advance raises the counter to at least value; lower values leave it untouched.
	Advance(ctx context.Context, name string, year int, value int64) error
}

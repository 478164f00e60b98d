package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money is serialized as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse HTTP error envelope. Stack is only filled outside production for 5xx.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Stack string `json:"stack,omitempty"`
}

// OKResponse acknowledgement body, e.g. for deletes.
type OKResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse body of the health endpoints.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

// AddressDTO postal address.
type AddressDTO struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// BankDetailsDTO bank account.
type BankDetailsDTO struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch,omitempty"`
}

// ISO formats t as an ISO-8601 UTC string; zero times become "".
func ISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

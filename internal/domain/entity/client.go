package entity

import "time"

// ClientStatus whether the client is still being billed.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Address postal address used for billing and shipping.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// BankDetails account where payments are received.
type BankDetails struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch,omitempty"`
}

// Client customer record. GST/PAN/MSME are opaque registration strings.
type Client struct {
	ID              string
	CompanyName     string
	ContactPerson   string
	Email           string
	Phone           string
	BillingAddress  Address
	ShippingAddress Address
	GSTNumber       string
	PANNumber       string
	MSMENumber      string
	BankDetails     *BankDetails
	Status          ClientStatus
	Notes           string
	SchemaVersion   int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

package entity

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// FinanceType kind of ledger entry.
type FinanceType string

const (
	FinanceInvested FinanceType = "invested"
	FinanceExpense  FinanceType = "expense"
	FinanceTDS      FinanceType = "tds"
)

// FinanceStatus settlement state of a ledger entry. Only completed entries count towards KPIs.
type FinanceStatus string

const (
	FinanceCompleted FinanceStatus = "completed"
	FinancePending   FinanceStatus = "pending"
	FinanceFailed    FinanceStatus = "failed"
)

// FinanceCategories closed vocabulary of categories per type.
var FinanceCategories = map[FinanceType][]string{
	FinanceInvested: {"capital", "loan", "investor", "asset_sale", "other"},
	FinanceExpense:  {"salary", "rent", "utilities", "travel", "office", "marketing", "software", "purchase", "logistics", "other"},
	FinanceTDS:      {"tds_194c", "tds_194j", "tds_194h", "tds_194i", "tds_194q", "other"},
}

// PaymentMethods accepted for finance records.
var PaymentMethods = []string{"cash", "bank_transfer", "upi", "cheque", "card", "other"}

var taxYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// FinanceRecord ledger entry, independent of clients and invoices.
type FinanceRecord struct {
	ID            string
	Type          FinanceType
	Category      string
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
	PaymentMethod string
	Status        FinanceStatus
	Reference     string
	TaxYear       string // YYYY-YY, tds only
	Notes         string
	SchemaVersion int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Valid reports whether t is a known finance type.
func (t FinanceType) Valid() bool {
	_, ok := FinanceCategories[t]
	return ok
}

// Valid reports whether s is a known finance status.
func (s FinanceStatus) Valid() bool {
	return s == FinanceCompleted || s == FinancePending || s == FinanceFailed
}

// ValidCategory reports whether category belongs to the vocabulary of t.
func (t FinanceType) ValidCategory(category string) bool {
	return contains(FinanceCategories[t], category)
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	return contains(PaymentMethods, m)
}

// ValidTaxYear reports whether s looks like 2024-25 with consecutive years.
func ValidTaxYear(s string) bool {
	if !taxYearPattern.MatchString(s) {
		return false
	}
	start := int(s[2]-'0')*10 + int(s[3]-'0')
	end := int(s[5]-'0')*10 + int(s[6]-'0')
	return end == (start+1)%100
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

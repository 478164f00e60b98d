package repository

import "context"

// Stores repositories bound to one unit of work.
type Stores struct {
	Clients   ClientRepository
	Purchases PurchaseRepository
	Invoices  InvoiceRepository
	Finance   FinanceRepository
	Settings  SettingsRepository
	Users     UserRepository
	Sequences SequenceRepository
}

// TxRunner runs fn inside a transaction; fn's error rolls everything back.
type TxRunner interface {
	Run(ctx context.Context, fn func(s Stores) error) error
}

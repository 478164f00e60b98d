// Package app wires configuration, the store and the use cases together.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/auth"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/billing"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/crm"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/finance"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/purchasing"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/settings"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/pricing"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/memory"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/pdf"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/postgres"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/storage"
	httpRouter "github.com/balagrajendran/purchase-management-sub000/internal/interfaces/http"
	"github.com/balagrajendran/purchase-management-sub000/pkg/config"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

// Container holds the store and every use case built on top of it.
type Container struct {
	Stores repository.Stores
	Tx     repository.TxRunner

	Auth      *auth.AuthUseCase
	Clients   *crm.ClientUseCase
	Purchases *purchasing.PurchaseUseCase
	Invoices  *billing.InvoiceUseCase
	PDF       *billing.PDFUseCase
	Finance   *finance.FinanceUseCase
	Settings  *settings.SettingsUseCase

	pool *pgxpool.Pool
}

// Build opens the configured store (running migrations when enabled) and wires the use cases.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{}

	switch cfg.DB.Driver {
	case "memory":
		store := memory.New()
		c.Stores, c.Tx = store.Stores(), store
		log.Warn().Msg("using the in-memory store; data is lost on restart")
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		c.pool = pool
		c.Stores, c.Tx = postgres.NewStores(pool), postgres.NewTxRunner(pool)
	}

	policy := pricing.Policy{BaseCurrency: cfg.Billing.BaseCurrency, TaxRate: cfg.Billing.TaxRate}
	billingCfg := billing.Config{Policy: policy, DefaultPaymentTerms: cfg.Billing.DefaultPaymentTerms}

	var archiver billing.Archiver
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Archiver(ctx, cfg.Storage, log.Component("storage"))
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("storage: %w", err)
		}
		archiver = s3
	}

	s := c.Stores
	c.Auth = auth.NewAuthUseCase(s.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	c.Clients = crm.NewClientUseCase(s.Clients)
	c.Purchases = purchasing.NewPurchaseUseCase(c.Tx, s.Purchases, s.Clients, policy, log)
	c.Invoices = billing.NewInvoiceUseCase(c.Tx, s.Invoices, s.Purchases, s.Clients, billingCfg, log)
	c.PDF = billing.NewPDFUseCase(s.Invoices, s.Clients, s.Settings, pdf.NewMarotoPDFGenerator(), archiver, billingCfg, log)
	c.Finance = finance.NewFinanceUseCase(s.Finance, log)
	c.Settings = settings.NewSettingsUseCase(s.Settings, cfg.Billing.BaseCurrency)
	return c, nil
}

// RouterDeps adapts the container to the HTTP router.
func (c *Container) RouterDeps(cfg *config.Config) httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		Service:     cfg.App.Name,
		AuthUC:      c.Auth,
		ClientUC:    c.Clients,
		PurchaseUC:  c.Purchases,
		InvoiceUC:   c.Invoices,
		PDFUC:       c.PDF,
		FinanceUC:   c.Finance,
		SettingsUC:  c.Settings,
		JWTSecret:   cfg.JWT.Secret,
		RequireAuth: cfg.HTTP.RequireAuth,
	}
}

// Close releases the connection pool, if any.
func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/auth"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/billing"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/crm"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/finance"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/purchasing"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/settings"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

// AppConfig server-wide options used by NewApp.
type AppConfig struct {
	Service      string
	Production   bool
	FrontendURLs []string
	BodyLimit    int
}

// NewApp builds the Fiber app with the shared middleware chain and error envelope.
func NewApp(cfg AppConfig, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Service,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler(cfg.Production, log.Component("http")),
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.Production, StackTraceHandler: KeepPanicStack}))
	app.Use(RequestID())
	app.Use(AccessLog(log.Component("access")))
	app.Use(CORS(cfg.FrontendURLs))
	return app
}

// RouterDeps dependencies of the router.
type RouterDeps struct {
	Service     string
	AuthUC      *auth.AuthUseCase
	ClientUC    *crm.ClientUseCase
	PurchaseUC  *purchasing.PurchaseUseCase
	InvoiceUC   *billing.InvoiceUseCase
	PDFUC       *billing.PDFUseCase
	FinanceUC   *finance.FinanceUseCase
	SettingsUC  *settings.SettingsUseCase
	JWTSecret   string
	RequireAuth bool // gate the data routes behind a bearer token
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	health := NewHealthHandler(deps.Service)
	app.Get("/", health.Check)
	app.Get("/healthz", health.Check)

	api := app.Group("/api")
	api.Get("/healthz", health.Check)

	authn := AuthMiddleware(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", LoginLimiter(10, time.Minute), authHandler.Login)
	authGroup.Get("/me", authn, authHandler.Me)
	authGroup.Post("/users", authn, RequireRole(entity.RoleAdmin), authHandler.CreateUser)

	var guard []fiber.Handler
	if deps.RequireAuth {
		guard = append(guard, authn)
	}

	// Clients
	clientHandler := NewClientHandler(deps.ClientUC, deps.PurchaseUC)
	clients := api.Group("/clients", guard...)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id/purchases", clientHandler.Purchases)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Purchases
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases := api.Group("/purchases", guard...)
	purchases.Get("/", purchaseHandler.List)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Post("/byIds", purchaseHandler.ByIDs)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Patch("/:id", purchaseHandler.Update)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)

	// Invoices
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices := api.Group("/invoices", guard...)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/stats", invoiceHandler.Stats)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/status", invoiceHandler.SetStatus)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Finance
	financeHandler := NewFinanceHandler(deps.FinanceUC)
	fin := api.Group("/finance", guard...)
	fin.Get("/", financeHandler.List)
	fin.Get("/stats", financeHandler.Stats)
	fin.Post("/", financeHandler.Create)
	fin.Post("/import", financeHandler.Import)
	fin.Get("/:id", financeHandler.GetByID)
	fin.Put("/:id", financeHandler.Update)
	fin.Delete("/:id", financeHandler.Delete)

	// Settings
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	st := api.Group("/settings", guard...)
	st.Get("/", settingsHandler.Get)
	st.Post("/", settingsHandler.Save)
	st.Put("/", settingsHandler.Save)
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/shopdb-api/internal/application/analytics"
	"github.com/jhoicas/shopdb-api/internal/application/auth"
	"github.com/jhoicas/shopdb-api/internal/application/inventory"
	"github.com/jhoicas/shopdb-api/internal/application/usecase"
	"github.com/jhoicas/shopdb-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ProductUC       *usecase.ProductUseCase
	SourceUC        *usecase.SourceUseCase
	TransactionUC   *usecase.TransactionUseCase
	DashboardUC     *appanalytics.DashboardUseCase
	Sell            *inventory.SellUseCase
	Receive         *inventory.ReceiveUseCase
	JWTSecret       string
	AllowUserHeader bool
	// Idempotency may be nil; Idempotency-Key headers are then ignored.
	Idempotency    IdempotencyStore
	IdempotencyTTL time.Duration
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireUser := AuthMiddleware(deps.JWTSecret, deps.AllowUserHeader)
	ttl := deps.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	idempotent := Idempotency(deps.Idempotency, ttl, deps.Log)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Products (protegido)
	products := api.Group("/products", requireUser)
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.Sell, deps.Receive)
	products.Get("/list", productHandler.List)
	products.Get("/findByBarcode", productHandler.FindByBarcode)
	products.Get("/findByBarcode/:barcode", productHandler.FindByBarcode)
	products.Get("/categories", productHandler.Categories)
	products.Post("/addProduct", productHandler.Create)
	products.Post("/addOrIncrease", idempotent, inventoryHandler.AddOrIncrease)
	products.Post("/sell", idempotent, inventoryHandler.Sell)
	products.Post("/sell/validate", inventoryHandler.ValidateSale)
	products.Put("/update", productHandler.Update)
	products.Put("/updateAllProducts", productHandler.UpdateAll)
	products.Put("/updateByCategory", productHandler.UpdateByCategory)
	products.Put("/updateBySource", productHandler.UpdateBySource)
	products.Put("/updateSelected", productHandler.UpdateSelected)
	products.Delete("/deleteProduct", productHandler.Delete)

	// Sources (protegido)
	sources := api.Group("/sources", requireUser)
	sourceHandler := NewSourceHandler(deps.SourceUC)
	sources.Get("/list", sourceHandler.List)
	sources.Post("/addSource", sourceHandler.Create)
	sources.Put("/updateSource", sourceHandler.Update)
	sources.Delete("/deleteSource", sourceHandler.Delete)

	// Transactions (protegido)
	transactions := api.Group("/transactions", requireUser)
	transactionHandler := NewTransactionHandler(deps.TransactionUC)
	transactions.Get("/list", transactionHandler.List)
	transactions.Get("/items", transactionHandler.Items)
	transactions.Post("/add", transactionHandler.Create)
	transactions.Delete("/delete", transactionHandler.Delete)
	transactions.Get("/:id/receipt", transactionHandler.Receipt)

	// Dashboard (protegido)
	if deps.DashboardUC != nil {
		dashboard := api.Group("/dashboard", requireUser)
		dashboardHandler := NewDashboardHandler(deps.DashboardUC)
		dashboard.Get("/summary", dashboardHandler.GetSummary)
	}
}

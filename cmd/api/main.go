package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	_ "github.com/jhoicas/shopdb-api/docs"
	appanalytics "github.com/jhoicas/shopdb-api/internal/application/analytics"
	"github.com/jhoicas/shopdb-api/internal/application/auth"
	"github.com/jhoicas/shopdb-api/internal/application/inventory"
	"github.com/jhoicas/shopdb-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/shopdb-api/internal/infrastructure/pdf"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/shopdb-api/internal/interfaces/http"
	"github.com/jhoicas/shopdb-api/pkg/config"
	"github.com/jhoicas/shopdb-api/pkg/logger"
	"github.com/jhoicas/shopdb-api/pkg/metrics"
	"github.com/jhoicas/shopdb-api/pkg/migrate"
)

// @title        shopdb API
// @version      1.0
// @description  Inventory and point-of-sale backend: catalog, sources, sales and restocks.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in          header
// @name        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStore(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión a la base de datos")
	}
	defer st.close()

	if cfg.AutoMigrate {
		migrate.SetLogger(log)
		if err := migrate.Up(ctx, st.sqlDB, st.dialect); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	inventoryMetrics := metrics.NewInventoryMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	sellUC := inventory.NewSellUseCase(st.products, st.tx, log, inventoryMetrics)
	receiveUC := inventory.NewReceiveUseCase(st.tx, log, inventoryMetrics)
	productUC := usecase.NewProductUseCase(st.products, st.sources, st.tx)
	sourceUC := usecase.NewSourceUseCase(st.sources)
	transactionUC := usecase.NewTransactionUseCase(
		st.ledger, st.sources, st.tx,
		infrapdf.NewReceiptRenderer(language.English), cfg.App.Name,
	)
	dashboardUC := appanalytics.NewDashboardUseCase(st.reports)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	deps := httpRouter.RouterDeps{
		AuthUC:          authUC,
		ProductUC:       productUC,
		SourceUC:        sourceUC,
		TransactionUC:   transactionUC,
		DashboardUC:     dashboardUC,
		Sell:            sellUC,
		Receive:         receiveUC,
		JWTSecret:       cfg.JWT.Secret,
		AllowUserHeader: cfg.Auth.AllowUserHeader,
		IdempotencyTTL:  cfg.Redis.IdempotencyTTL,
		Log:             log,
	}
	// Redis es opcional: sin REDIS_URL los reintentos no se deduplican.
	if cfg.Redis.URL != "" {
		rdb, err := redis.New(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		deps.Idempotency = rdb
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log, httpMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.DocsPath,
			Path:     "docs",
			Title:    "shopdb API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": cfg.DB.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

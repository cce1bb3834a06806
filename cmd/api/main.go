package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
	"github.com/jhoicas/Inventario-wms/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-wms/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-wms/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-wms/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-wms/internal/interfaces/http"
	"github.com/jhoicas/Inventario-wms/pkg/config"
	"github.com/jhoicas/Inventario-wms/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Inventory.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL (pgx) o en memoria para ejecuciones locales.
	var (
		repos    inventory.Repos
		txRunner inventory.TxRunner
	)
	switch cfg.Inventory.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		repos, txRunner = store.Repos(), store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		repos, txRunner = postgres.NewRepos(pool), postgres.NewTxRunner(pool)
	}

	// Cache de estructura: Redis si está habilitado; si no responde se sigue sin cache.
	var structureCache inventory.StructureCache = inventory.NoopCache{}
	if cfg.Redis.Enabled {
		rc, err := cache.NewStructureCache(ctx, cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, cache de estructura desactivada")
		} else {
			defer rc.Close()
			structureCache = rc
		}
	}

	invCfg := inventory.Config{ElevatedRoles: cfg.Inventory.ElevatedRoles}
	ledger := inventory.NewLedger()
	aggregator := inventory.NewAggregator()

	locationSvc := inventory.NewLocationService(repos, txRunner, structureCache, invCfg, log.Component("locations"))
	itemSvc := inventory.NewItemService(repos, txRunner, locationSvc, ledger, aggregator, invCfg, log.Component("items"))
	investigationSvc := inventory.NewInvestigationService(repos, txRunner, locationSvc, itemSvc, invCfg, log.Component("investigations"))
	mergeSvc := inventory.NewMergeService(repos, txRunner, locationSvc, itemSvc, invCfg, log.Component("merge"))
	reportSvc := inventory.NewReportService(repos, locationSvc, infrapdf.NewMovementReportRenderer(), invCfg)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario WMS API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Locations:      locationSvc,
		Items:          itemSvc,
		Investigations: investigationSvc,
		Merge:          mergeSvc,
		Reports:        reportSvc,
		JWTSecret:      cfg.JWT.Secret,
	})

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

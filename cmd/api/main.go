package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/LeChef318/warehouse-app/internal/application/audit"
	"github.com/LeChef318/warehouse-app/internal/application/catalog"
	"github.com/LeChef318/warehouse-app/internal/application/identity"
	"github.com/LeChef318/warehouse-app/internal/application/startup"
	"github.com/LeChef318/warehouse-app/internal/application/stock"
	"github.com/LeChef318/warehouse-app/internal/infrastructure/keycloak"
	"github.com/LeChef318/warehouse-app/internal/infrastructure/postgres"
	httpRouter "github.com/LeChef318/warehouse-app/internal/interfaces/http"
	"github.com/LeChef318/warehouse-app/pkg/config"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Fase 1: base, rol de aplicación y esquema con credenciales administrativas.
	if err := postgres.EnsureSchema(ctx, cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("preparación del esquema")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	idpClient := keycloak.NewClient(cfg.Keycloak, log)

	// Fases 2 y 3: sincronización de usuarios y bootstrap del admin inicial.
	coordinator := startup.NewCoordinator(idpClient, userRepo, cfg.Admin, log)
	if err := coordinator.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("tareas de arranque")
	}

	identityUC := identity.NewUsecase(idpClient, userRepo, txRunner, log)
	stockUC := stock.NewUsecase(txRunner, stockRepo, productRepo, warehouseRepo, log)
	auditUC := audit.NewUsecase(auditRepo, log)
	categoryUC := catalog.NewCategoryUsecase(categoryRepo, productRepo, log)
	productUC := catalog.NewProductUsecase(productRepo, categoryRepo, stockRepo, log)
	warehouseUC := catalog.NewWarehouseUsecase(warehouseRepo, stockRepo, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Users:      identityUC,
		Stocks:     stockUC,
		Audits:     auditUC,
		Categories: categoryUC,
		Products:   productUC,
		Warehouses: warehouseUC,
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

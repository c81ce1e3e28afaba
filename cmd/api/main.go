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

	_ "github.com/jhoicas/alquileres-api/docs"
	appanalytics "github.com/jhoicas/alquileres-api/internal/application/analytics"
	"github.com/jhoicas/alquileres-api/internal/application/auth"
	"github.com/jhoicas/alquileres-api/internal/application/demo"
	"github.com/jhoicas/alquileres-api/internal/application/documents"
	"github.com/jhoicas/alquileres-api/internal/application/inventory"
	"github.com/jhoicas/alquileres-api/internal/application/jobs"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/application/rental"
	"github.com/jhoicas/alquileres-api/internal/application/site"
	"github.com/jhoicas/alquileres-api/internal/application/usecase"
	"github.com/jhoicas/alquileres-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/alquileres-api/internal/infrastructure/pdf"
	"github.com/jhoicas/alquileres-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/alquileres-api/internal/interfaces/http"
	"github.com/jhoicas/alquileres-api/internal/scheduler"
	"github.com/jhoicas/alquileres-api/pkg/config"
	"github.com/jhoicas/alquileres-api/pkg/logger"
)

// @title                       Alquileres API
// @version                     1.0
// @description                 Inventario y facturación de alquiler de equipos por obra.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	loc, err := cfg.Business.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria del negocio")
	}
	cal := ports.NewCalendar(loc)

	ctx := context.Background()

	// Store: memoria (defecto) o PostgreSQL con migraciones embebidas.
	var (
		txRunner ports.TxRunner
		repos    ports.TxRepos
	)
	switch cfg.App.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
	default:
		store := memory.NewStore()
		txRunner = store
		repos = store.Repos()
	}

	productUC := usecase.NewProductUseCase(txRunner, repos.Products, cal, log.Component("products"))
	clientUC := usecase.NewClientUseCase(txRunner, repos.Clients, cal)
	siteUC := site.NewUseCase(txRunner, repos.Sites, cal, log.Component("sites"))
	rentalUC := rental.NewUseCase(txRunner, repos.Rentals, cal, log.Component("rentals"))
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Products, repos.Rentals, cal)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Rentals, repos.Products, repos.Sites, cal)

	// PDF: remito, recibo y cotización
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	documentsUC := documents.NewUseCase(repos.Rentals, repos.Sites, repos.Clients, pdfGenerator, cal)

	authUC := auth.NewAuthUseCase(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.PasswordHash)

	if cfg.App.SeedDemo {
		seeder := &demo.Seeder{
			Products: productUC,
			Clients:  clientUC,
			Sites:    siteUC,
			Rentals:  rentalUC,
			Cal:      cal,
			Log:      log.Component("demo"),
		}
		if err := seeder.Seed(ctx); err != nil {
			log.Error().Err(err).Msg("carga de datos de ejemplo")
		}
	}

	// Jobs: auto-inicio de alquileres presupuestados
	autoStart := jobs.NewAutoStart(repos.Rentals, rentalUC, cal, log.Component("autostart"))
	jobRunner := jobs.NewJobRunner(autoStart, log.Component("jobs"))
	sched, err := scheduler.New(jobRunner, scheduler.Config{
		AutoStartSpec: cfg.Scheduler.AutoStartSpec,
		Location:      loc,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	sched.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Alquileres API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:       productUC,
		ReplenishmentUC: replenishmentUC,
		ClientUC:        clientUC,
		SiteUC:          siteUC,
		RentalUC:        rentalUC,
		DocumentsUC:     documentsUC,
		DashboardUC:     dashboardUC,
		AuthUC:          authUC,
		JWTSecret:       cfg.JWT.Secret,
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
	sched.Stop()

	log.Info().Msg("aplicación detenida")
}

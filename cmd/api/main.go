package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"realty_gateway/internal/backend"
	"realty_gateway/internal/backend/memory"
	"realty_gateway/internal/controller"
	"realty_gateway/internal/gateway"
	"realty_gateway/internal/middleware"
	"realty_gateway/internal/model"
	"realty_gateway/pkg/config"
	"realty_gateway/pkg/cron"
	"realty_gateway/pkg/database"
	"realty_gateway/pkg/email"
	"realty_gateway/pkg/logger"
	"realty_gateway/pkg/schema"
	"realty_gateway/pkg/seed"
	"realty_gateway/pkg/utils/jwt"
	"realty_gateway/pkg/utils/storage"
)

type backends struct {
	tables  backend.Tables
	storage backend.Storage
	// objects is set for the in-memory driver so uploads can be served.
	objects *memory.Storage
}

func openBackends(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backends, error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("Using in-memory backend, data is lost on restart")
		objects := memory.NewStorage(cfg.Storage.PublicURL)
		return &backends{tables: memory.NewTables(), storage: objects, objects: objects}, nil
	}

	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := database.InitDB(cfg.Database.URL, log)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, log, model.AllModels()...); err != nil {
			log.Warn("Migration warning", "error", err)
		}
	}

	s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	return &backends{tables: database.NewTables(db), storage: s3Storage}, nil
}

// serveMemoryObjects exposes in-memory uploads under the public storage URL.
func serveMemoryObjects(app *fiber.App, objects *memory.Storage) {
	app.Get("/storage/:bucket/*", func(c *fiber.Ctx) error {
		obj, ok := objects.Object(c.Params("bucket"), c.Params("*"))
		if !ok {
			return c.SendStatus(fiber.StatusNotFound)
		}
		if obj.ContentType != "" {
			c.Set(fiber.HeaderContentType, obj.ContentType)
		}
		return c.Send(obj.Body)
	})
}

func main() {
	cfg := config.Load()

	log, closeLog, err := logger.New(cfg.Log, cfg.AppName)
	if err != nil {
		slog.Error("Could not initialize logger", "error", err)
		os.Exit(1)
	}

	err = run(cfg, log)
	if err != nil {
		log.Error("Server stopped with error", "error", err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schemas, err := schema.New()
	if err != nil {
		return err
	}
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}

	opts := []gateway.Option{
		gateway.WithLogger(log),
		gateway.WithAtomicCounters(cfg.Gateway.AtomicCounters),
	}

	var mailer *email.EmailService
	if cfg.Email.ResendAPIKey != "" && cfg.Email.AgentEmail != "" {
		mailer, err = email.NewEmailService(cfg.Email, log)
		if err != nil {
			return err
		}
		opts = append(opts, gateway.WithNotifier(mailer))
		log.Info("Email service initialized", "agent", cfg.Email.AgentEmail)
	}

	gw := gateway.New(b.tables, b.storage, opts...)
	if cfg.Database.SeedSampleData {
		seed.SeedSampleProperties(ctx, gw, log)
	}

	scheduler := cron.NewScheduler(log)
	if err := scheduler.Add(cfg.Cron.CounterReconcileSchedule, cron.NewCounterReconciler(b.tables, log)); err != nil {
		return err
	}
	if mailer != nil {
		if err := scheduler.Add(cfg.Cron.DailyDigestSchedule, cron.NewDailyDigest(gw, mailer, log)); err != nil {
			return err
		}
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:   cfg.AppName,
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New())

	if b.objects != nil {
		serveMemoryObjects(app, b.objects)
	}

	controller.SetupRoutes(app, controller.Handlers{
		Auth:       controller.NewAuthController(cfg.Admin, tokens, log),
		Properties: controller.NewPropertyController(gw, schemas, log),
		Enquiries:  controller.NewEnquiryController(gw, schemas),
		Newsletter: controller.NewNewsletterController(gw, schemas),
		Uploads:    controller.NewUploadController(gw, cfg.Gateway.OptimizeUploads, log),
	}, tokens)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server is running", "port", cfg.Server.Port)
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		scheduler.Stop(context.Background())
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	return app.ShutdownWithContext(shutdownCtx)
}

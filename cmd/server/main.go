package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/saathi/saathi-backend/internal/api"
	"github.com/saathi/saathi-backend/internal/audit"
	"github.com/saathi/saathi-backend/internal/auth"
	"github.com/saathi/saathi-backend/internal/config"
	"github.com/saathi/saathi-backend/internal/database"
	"github.com/saathi/saathi-backend/internal/emotion"
	"github.com/saathi/saathi-backend/internal/gateway"
	genaiprovider "github.com/saathi/saathi-backend/internal/gateway/genai"
	openaiprovider "github.com/saathi/saathi-backend/internal/gateway/openai"
	"github.com/saathi/saathi-backend/internal/services"
	"github.com/saathi/saathi-backend/internal/session"
	"github.com/saathi/saathi-backend/internal/speech"
	"github.com/saathi/saathi-backend/internal/store/postgres"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: ", err)
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "change-me-in-production"
		logger.Warn("Using default JWT secret. Set SAATHI_JWT_SECRET in production!")
	}

	ctx := context.Background()

	// Connect to database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations: ", err)
	}

	// Chat session state
	sessions := session.NewStore(cfg.Redis)
	if err := sessions.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to redis: ", err)
	}
	defer sessions.Close()

	// Text-generation provider
	generator, err := newGenerator(ctx, cfg.Gateway)
	if err != nil {
		logger.Fatal("Failed to initialize generation provider: ", err)
	}
	logger.WithField("provider", generator.Name()).Info("generation provider ready")

	// Speech clients
	transcriber, err := speech.NewTranscriber(ctx, cfg.Speech)
	if err != nil {
		logger.Fatal("Failed to initialize transcriber: ", err)
	}
	defer transcriber.Close()

	synthesizer, err := speech.NewSynthesizer(ctx, cfg.Speech)
	if err != nil {
		logger.Fatal("Failed to initialize synthesizer: ", err)
	}
	defer synthesizer.Close()

	classifier, err := emotion.NewClassifier(cfg.Emotion)
	if err != nil {
		logger.Fatal("Failed to initialize emotion classifier: ", err)
	}

	// Initialize repositories
	childRepo := postgres.NewChildRepository(db.DB)
	conversationRepo := postgres.NewConversationRepository(db.DB)
	taskRepo := postgres.NewTaskRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, "saathi-backend",
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	auditService := audit.NewService(postgres.NewAuditRepository(db.DB), logger)

	// Initialize services
	svc := services.NewServices(services.Deps{
		Children:      childRepo,
		Conversations: conversationRepo,
		Tasks:         taskRepo,
		Generator:     generator,
		Transcriber:   transcriber,
		Synthesizer:   synthesizer,
		Classifier:    classifier,
		Sessions:      sessions,
		JWT:           jwtService,
		Audit:         auditService,
		Timeout:       time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second,
		Logger:        logger,
	})

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Saathi Backend",
		BodyLimit:    16 * 1024 * 1024, // voice uploads
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	api.SetupRoutes(app, svc, jwtService)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Infof("Saathi Backend starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("Server shutdown failed: ", err)
	}
}

func newGenerator(ctx context.Context, cfg config.GatewayConfig) (gateway.Generator, error) {
	if cfg.Provider == "openai" {
		return openaiprovider.NewProvider(cfg)
	}
	return genaiprovider.NewProvider(ctx, cfg)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  code,
		"message": err.Error(),
	})
}

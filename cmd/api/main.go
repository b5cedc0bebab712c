// @title StudyBuddy-AI API
// @version 1.0
// @description Generates ten question and answer pairs on any topic using a hosted LLM.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:7860
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"studybuddy-ai/internal/adapter/completion"
	"studybuddy-ai/internal/config"
	"studybuddy-ai/internal/domain"
	"studybuddy-ai/internal/handler"
	"studybuddy-ai/internal/logger"
	"studybuddy-ai/internal/middleware"
	"studybuddy-ai/internal/service"
	"studybuddy-ai/internal/validation"
	"studybuddy-ai/internal/web"

	_ "studybuddy-ai/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("request_id", middleware.RequestIDFromCtx(c)),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

// buildProvider returns the configured provider. A missing credential is not
// fatal: the server starts and every generation reports the configuration error.
func buildProvider(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (domain.CompletionProvider, bool) {
	provider, err := completion.NewProvider(ctx, cfg)
	if err == nil {
		return provider, true
	}

	name := completion.ProviderName(cfg.LLM.Provider)
	var credErr *domain.MissingCredentialError
	if !errors.As(err, &credErr) {
		appLogger.Fatal("Failed to create completion provider", zap.String("provider", name), zap.Error(err))
	}

	appLogger.Warn("⚠️  WARNING: "+cfg.APIKeyEnvVar()+" environment variable not set!",
		zap.String("hint", "export "+cfg.APIKeyEnvVar()+"='your-api-key-here'"),
		zap.String("get_key", completion.KeyURL(cfg.LLM.Provider)),
	)
	return completion.NewUnavailableProvider(name, err), false
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	appLogger := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, credentialConfigured := buildProvider(ctx, cfg, appLogger)
	appLogger.Info("Completion provider initialized",
		zap.String("provider", provider.Name()),
		zap.String("model", completion.ModelOf(provider)),
		zap.Bool("credential_configured", credentialConfigured),
	)

	page, err := web.NewPage()
	if err != nil {
		appLogger.Fatal("Failed to parse page template", zap.Error(err))
	}

	validator := validation.NewValidator()
	qaService := service.NewQAGenerationService(provider)
	generationHandler := handler.NewGenerationHandler(qaService, validator, page, cfg.APIKeyEnvVar(), credentialConfigured)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(app, generationHandler, middleware.NewValidationMiddleware(validator))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		return app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return
	}
	appLogger.Info("Server exited gracefully")
}

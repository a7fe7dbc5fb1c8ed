package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/versefinder/versefinder/internal/ai"
	"github.com/versefinder/versefinder/internal/auth"
	"github.com/versefinder/versefinder/internal/config"
	"github.com/versefinder/versefinder/internal/handlers"
	"github.com/versefinder/versefinder/internal/routes"
	"github.com/versefinder/versefinder/internal/scripture"
	"github.com/versefinder/versefinder/internal/search"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, configPath, config.Load)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	// 1. --- Identity ---
	verifier, err := newVerifier(ctx, cfg.Auth)
	if err != nil {
		return err
	}

	// 2. --- AI Service Initialization ---
	completer, closeCompleter, err := newCompleter(ctx, cfg.AI)
	if err != nil {
		return err
	}
	defer closeCompleter()
	resolver := ai.NewResolver(completer, cfg.AI.Timeout, a.log)

	// 3. --- Scripture Text ---
	fetcher := scripture.NewClient(scripture.Config{
		BaseURL:     cfg.Scripture.BaseURL,
		Translation: cfg.Scripture.Translation,
		MaxWords:    cfg.Scripture.MaxWords,
		Timeout:     cfg.Scripture.Timeout,
	}, a.log)

	// --- Application Setup ---
	// We inject ALL dependencies into the Handlers struct.
	h := &handlers.Handlers{
		Store:    a.store,
		Pipeline: search.NewPipeline(resolver, fetcher, a.store, a.store, a.log),
		Credits:  cfg.Credits,
		Log:      a.log,
	}

	// --- Router Setup ---
	gin.SetMode(cfg.Server.GinMode)
	router, err := routes.SetupRouter(h, routes.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Verifier:       verifier,
		IsAdmin:        cfg.Auth.IsAdmin,
		Log:            a.log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Run until a signal arrives, then drain ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("ai_provider", completer.Name()),
			zap.String("auth_mode", cfg.Auth.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newVerifier picks the token verifier for the auth mode. Firebase mode
// uses Application Default Credentials, as the Admin SDK does.
func newVerifier(ctx context.Context, cfg config.AuthConfig) (auth.Verifier, error) {
	if cfg.Mode == "hmac" {
		return auth.NewHMACVerifier(cfg.Secret), nil
	}
	return auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID)
}

// newCompleter builds the completer for the configured provider. The
// returned func releases its resources.
func newCompleter(ctx context.Context, cfg config.AIConfig) (ai.Completer, func(), error) {
	switch cfg.Provider {
	case "openai":
		return ai.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIURL, nil), func() {}, nil
	case "gemini":
		g, err := ai.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

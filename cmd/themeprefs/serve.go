package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/api"
	"github.com/CreativeUnicorns/themeprefs/encryption"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().String("listen-addr", ":8080", "HTTP listen address")
	cmd.Flags().Bool("secure-cookies", false, "Mark the session cookie Secure")
	if err := opts.v.BindPFlag("listen_addr", cmd.Flags().Lookup("listen-addr")); err != nil {
		panic(fmt.Sprintf("binding listen-addr flag: %v", err))
	}
	if err := opts.v.BindPFlag("session.secure", cmd.Flags().Lookup("secure-cookies")); err != nil {
		panic(fmt.Sprintf("binding secure-cookies flag: %v", err))
	}
	return cmd
}

func runServe(ctx context.Context, opts *cliOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	themeprefs.SetDefaultLogger(logger)
	logger.Info("themeprefs server starting up", "storage", cfg.Storage.Type, "cache", cfg.Cache.Type)

	backend, err := cfg.OpenBackend(logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	sealer, err := newSealer(cfg.Session.Secret, logger)
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Config{
		ListenAddress: cfg.ListenAddr,
		Backend:       backend,
		Sealer:        sealer,
		Fallback:      cfg.EnvDetector(),
		SessionTTL:    cfg.Session.TTL,
		SecureCookies: cfg.Session.Secure,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exited gracefully")
	return nil
}

// newSealer uses the configured secret, or a random one that only lives as
// long as the process.
func newSealer(secret string, logger themeprefs.Logger) (*encryption.Sealer, error) {
	if secret != "" {
		return encryption.NewSealer([]byte(secret))
	}
	logger.Warn("No session secret configured, sessions will not survive a restart")
	key := make([]byte, encryption.MinKeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return encryption.NewSealer(key)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tulasisilks/internal/auth"
	"tulasisilks/internal/catalog"
	"tulasisilks/internal/config"
	"tulasisilks/internal/handlers"
	"tulasisilks/internal/jobs"
	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/metrics"
	"tulasisilks/internal/middleware"
	"tulasisilks/internal/router"
	"tulasisilks/internal/session"
	"tulasisilks/internal/settings"
	"tulasisilks/internal/store"
)

// Upload rate limit per client IP.
const (
	uploadLimit  = 20
	uploadWindow = time.Minute
)

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP server and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
		"upload", cfg.UploadBackend,
	)

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()

	products := store.NewProductStore(kv)
	cat := catalog.New(products, catalog.WithObserver(m.CatalogOp))
	if err := cat.Load(ctx); err != nil {
		return err
	}
	customers := store.NewCustomerStore(kv)
	orders := store.NewOrderStore(kv)
	if err := seedIfConfigured(ctx, cfg, cat, orders); err != nil {
		return err
	}
	m.SetProducts(cat.Len())
	slog.Info("catalog loaded", "products", cat.Len())

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessions := session.NewStore(kv, secureCookies)
	sessions.SetTTL(cfg.SessionTTL)

	authSvc := auth.New(cfg.Auth(), customers)
	if authSvc.TOTPEnabled() {
		slog.Info("admin totp enabled")
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		return err
	}

	svc := settings.New(store.NewSiteSettingStore(kv))

	limiter := middleware.NewRateLimiter(uploadLimit, uploadWindow)
	defer limiter.Stop()

	r := router.New(router.Deps{
		Sessions:       sessions,
		Admin:          handlers.NewAdmin(cat, customers, orders, svc, authSvc, sessions, uploader, m),
		Auth:           handlers.NewAuth(authSvc, sessions),
		Public:         handlers.NewPublic(cat, svc),
		Observer:       m,
		MetricsHandler: m.Handler(),
		UploadLimiter:  limiter,
		Secure:         secureCookies,
	})

	// Stores with native expiry have no sweeper.
	sweeper, _ := kv.(kvstore.Sweeper)
	jobCfg := jobs.DefaultConfig()
	jobCfg.SweepSpec = cfg.SweepSchedule
	jobCfg.SnapshotSpec = cfg.SnapshotSchedule
	scheduler, err := jobs.New(jobCfg, sweeper, cat, products, m)
	if err != nil {
		return err
	}

	// WriteTimeout must accommodate image uploads to the remote service.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Give active requests up to 30 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

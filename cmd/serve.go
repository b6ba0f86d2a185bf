package main

import (
	"accessgate/internal/app"
	"accessgate/internal/authsession"
	"accessgate/internal/bootstrap"
	"accessgate/internal/config"
	"accessgate/internal/host"
	"accessgate/internal/platform"
	"accessgate/internal/router"
	"accessgate/internal/views"
	"accessgate/internal/worker"
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupHost(ctx context.Context, cfg *config.Config) (*host.Host, func(ctx context.Context)) {
	h, err := host.New(ctx, host.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := h.Server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return h, func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := h.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func setupWorker(ctx context.Context, cfg *config.Config, p *platform.Platform) func(ctx context.Context) {
	riverClient, err := worker.Start(context.WithoutCancel(ctx), p.Storage.Pool, p.Storage, worker.Options{
		MaxWorkers: cfg.Worker.MaxWorkers,
	})
	if err != nil {
		logger.Fatal(ctx, "could not start background worker", zap.Error(err))
	}

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping background worker...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop background worker", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the console webserver and background worker",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			p, err := platform.New(ctx, cfg)
			if err != nil {
				logger.Fatal(ctx, "could not create platform", zap.Error(err))
			}

			viewSet, err := views.New(views.Deps{Storage: p.Storage})
			if err != nil {
				logger.Fatal(ctx, "could not parse view templates", zap.Error(err))
			}
			r, err := router.New(router.Routes(), router.Options{BasePath: cfg.Router.BasePath})
			if err != nil {
				logger.Fatal(ctx, "could not create router", zap.Error(err))
			}

			h, stopWebserver := setupHost(ctx, cfg)
			stopWorker := setupWorker(ctx, cfg, p)

			var mounted atomic.Pointer[app.App]
			b, err := bootstrap.New(bootstrap.Options{
				Provider:    p.Auth,
				Persistence: authsession.Mode(cfg.Auth.Persistence),
				Router:      r,
				Host:        h,
				NewApp: func(initial *domain.User) (bootstrap.App, error) {
					a := app.New(app.Deps{
						Auth:    p.Auth,
						Storage: p.Storage,
						Views:   viewSet,
					}, initial)
					mounted.Store(a)

					return a, nil
				},
			})
			if err != nil {
				logger.Fatal(ctx, "could not create bootstrap", zap.Error(err))
			}
			if err = b.Start(ctx); err != nil {
				logger.Fatal(ctx, "could not start bootstrap", zap.Error(err))
			}

			go func() {
				if err := b.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Fatal(ctx, "could not mount application", zap.Error(err))
				}
			}()

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			// no session changes reach the app once the auth loop is stopped
			p.Auth.Close()
			if a := mounted.Load(); a != nil {
				a.Close()
			}
			stopWorker(shutdownCtx)
			p.Close(shutdownCtx)
		},
	}

	return cmd
}

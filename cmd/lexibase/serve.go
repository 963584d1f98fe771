package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lexibase/internal/handler"
	"lexibase/internal/hub"
	"lexibase/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eventBus := service.NewEventBus()
			events := hub.New(a.logger)
			eventChan := make(chan service.Event, 100)
			eventBus.Subscribe(eventChan)

			cfg := a.cfg
			router := handler.NewRouter(handler.Services{
				Catalog:   service.NewCatalogService(repo, a.logger, cfg.Cognacy.CladeDepth, cfg.Resources.SourceCacheTTL.Duration()),
				Cognacy:   service.NewCognacyService(repo, eventBus, a.logger, cfg.Cognacy.CladeDepth),
				Entry:     service.NewEntryService(repo, eventBus, a.logger, cfg.Batteries()),
				Events:    events,
				PageLimit: cfg.Resources.PageLimit,
			}, a.logger)

			server := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      router,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
				WriteTimeout: cfg.Server.WriteTimeout.Duration(),
				IdleTimeout:  60 * time.Second,
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				events.Run(ctx)
				return nil
			})
			g.Go(func() error {
				for {
					select {
					case <-ctx.Done():
						return nil
					case evt := <-eventChan:
						events.Broadcast(hub.Message{Type: string(evt.Type), Payload: evt.Payload})
					}
				}
			})
			g.Go(func() error {
				a.logger.Info("server listening", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				a.logger.Info("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			err = g.Wait()
			a.logger.Info("server stopped")
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	return cmd
}

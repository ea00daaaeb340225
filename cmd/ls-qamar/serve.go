package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-qamar/internal/api"
	"github.com/litescript/ls-qamar/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sky, calendar and content endpoints as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			a.cfg.Server.Address = serveAddr
		}
		return runServer(cmd.Context(), a)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServer(ctx context.Context, a *app) error {
	if logging.ParseLevel(a.cfg.Logging.Level) > logging.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	b, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	srv := api.New(api.Options{
		Place:       a.place,
		Target:      a.target,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		Logger:      a.log,
		Store:       b.store,
		Verifier:    b.verifier,
		Now:         a.clock,
	})

	httpSrv := &http.Server{
		Addr:              a.cfg.Server.Address,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

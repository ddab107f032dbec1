package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/utakatalp/prode/internal/api"
	"github.com/utakatalp/prode/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve group tables over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		svc := service.NewGroupService(a.store, a.cfg.Scoring, a.logger)
		srv := &http.Server{
			Addr:              a.cfg.HTTP.Addr,
			Handler:           api.NewHandler(svc, a.logger).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.logger.WithField("addr", srv.Addr).Info("Starting prode server...")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				a.logger.WithError(err).Error("Server failed")
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

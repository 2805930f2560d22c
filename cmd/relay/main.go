package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"landscaper/internal/logging"
	"landscaper/internal/relay"
	"landscaper/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr     string
		dir      string
		logLevel string
		logJSON  bool
	)
	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Room relay and snapshot server for landscaper",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log := logging.New(logging.Config{Level: lvl, JSON: logJSON, Service: "relay"})
			if lvl != logging.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}

			hub := relay.NewHub(store.NewLandscapeFileStore(dir), log)
			srv := &http.Server{
				Addr:              addr,
				Handler:           hub.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Info("relay listening", "addr", addr, "store", dir)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Info("relay shutting down")
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dir, "store", "landscapes", "directory for landscape snapshots")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "log as JSON")
	return cmd
}

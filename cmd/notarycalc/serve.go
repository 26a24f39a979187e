package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/notarycalc/internal/api"
)

const defaultAddr = ":8080"

// listenAddr picks the flag, then NOTARYCALC_ADDR, then the default
func listenAddr(cmd *cobra.Command) string {
	if cmd.Flags().Changed("addr") {
		addr, _ := cmd.Flags().GetString("addr")
		return addr
	}
	if addr := os.Getenv("NOTARYCALC_ADDR"); addr != "" {
		return addr
	}
	return defaultAddr
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP",
		Long: `Starts the HTTP API. Settings are read from flags, then from the
environment (NOTARYCALC_ADDR), which may be seeded from a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			registry, err := loadRegistry(cmd)
			if err != nil {
				return err
			}

			server := api.NewServer(registry)
			server.SetLogger(simpleCLILogger{})
			server.SetVersion(version)
			timeout, _ := cmd.Flags().GetDuration("timeout")
			server.SetTimeout(timeout)
			if metrics, _ := cmd.Flags().GetBool("metrics"); metrics {
				server.EnableMetrics()
			}

			srv := &http.Server{
				Addr:              listenAddr(cmd),
				Handler:           server.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      timeout + 5*time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Printf("notarycalc API listening on %s (rulebook %s)", srv.Addr, registry.Rulebook().Metadata.Version)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("graceful shutdown failed: %v", err)
			}
			return nil
		},
	}
	cmd.Flags().String("addr", defaultAddr, "Listen address (overrides NOTARYCALC_ADDR)")
	cmd.Flags().String("env-file", ".env", "Environment file loaded before reading settings")
	cmd.Flags().Duration("timeout", 30*time.Second, "Per-request timeout")
	cmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	return cmd
}

package cmd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/broadside-press/broadside/api"
	"github.com/broadside-press/broadside/config"
	"github.com/broadside-press/broadside/ratelimit/redisstore"
	"github.com/broadside-press/broadside/web"
)

var (
	addr    string
	tlsCert string
	tlsKey  string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if addr != "" {
			cfg.Addr = addr
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		opts := []api.Option{api.WithLogger(logger)}
		if cfg.RateLimitRedisURL != "" {
			redisOpts, err := redis.ParseURL(cfg.RateLimitRedisURL)
			if err != nil {
				return fmt.Errorf("failed to parse rate limit redis url: %w", err)
			}
			rdb := redis.NewClient(redisOpts)
			pingCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			err = rdb.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				return fmt.Errorf("failed to reach rate limit redis: %w", err)
			}
			defer rdb.Close()
			opts = append(opts, api.WithLimiter(redisstore.New(rdb)))
		}

		a := api.New(cfg, opts...)
		if !a.Configured() {
			logger.Warn("ADMIN_PASSWORD is not set; admin login is disabled until it is configured")
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger)
		r.Use(api.Recoverer)
		r.Use(api.SecurityHeaders)

		r.Mount("/api", a.Router())

		webHandler, err := web.Handler()
		if err != nil {
			return err
		}
		r.Handle("/*", webHandler)

		server := &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		useTLS := tlsCert != "" && tlsKey != ""
		if useTLS {
			cert, err := tls.LoadX509KeyPair(tlsCert, tlsKey)
			if err != nil {
				return fmt.Errorf("failed to load TLS key pair: %w", err)
			}
			server.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			}
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			var err error
			if useTLS {
				err = server.ListenAndServeTLS("", "")
			} else {
				err = server.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Starting server on %s...\n", cfg.Addr)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (overrides ADDR)")
	serverCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to TLS certificate file")
	serverCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to TLS key file")
}

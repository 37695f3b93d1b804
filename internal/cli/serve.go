package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aezell/codescore/internal/client"
	"github.com/aezell/codescore/internal/web"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser front-end",
	Long: `Start an HTTP server with the upload page. Each browser gets its own
session; analysis requests are forwarded to the configured endpoint.

Endpoints:
  GET  /           - Upload page with results
  POST /select     - Choose a file (multipart field "file")
  POST /analyze    - Send the chosen file for analysis
  GET  /api/state  - Current session state as JSON
  GET  /api/ws     - WebSocket stream of state changes
  GET  /health     - Health check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "address to listen on (default 127.0.0.1)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default 3000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Serve.Addr = addr
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Serve.Port = port
	}

	srv := web.New(cfg.ResolvedAddr(), client.New(cfg.ResolvedEndpoint()), web.Options{
		AllowedOrigin: cfg.Serve.AllowedOrigin,
		Theme:         cfg.ResolvedTheme(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server gracefully stopped")
	return nil
}

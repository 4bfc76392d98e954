package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/satheeshds/invoicing/audit"
	"github.com/satheeshds/invoicing/delivery"
	_ "github.com/satheeshds/invoicing/docs"
	"github.com/satheeshds/invoicing/handlers"
	"github.com/satheeshds/invoicing/mail"
	"github.com/satheeshds/invoicing/render"
	"github.com/satheeshds/invoicing/web"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and web UI",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	s, err := newStore(ctx, database)
	if err != nil {
		return err
	}
	logger := slog.Default()
	auditLog := audit.NewLog(s, logger)

	renderer, err := render.NewHTML()
	if err != nil {
		return fmt.Errorf("failed to load invoice template: %w", err)
	}
	var sender mail.Sender = mail.Disabled{}
	if cfg.SMTPHost != "" {
		sender = mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		})
	} else {
		slog.Warn("SMTP_HOST not set, invoice email is disabled")
	}
	api := handlers.NewAPI(s, auditLog, delivery.NewService(s, renderer, sender, auditLog, logger), logger)

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// API routes with basic auth
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handlers.BasicAuth(cfg.AuthUser, cfg.AuthPass))
		api.Routes(r)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Serve static files (UI)
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return err
	}
	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

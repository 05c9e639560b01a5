// Package server initializes and runs the TeamBridge message store server:
// Postgres-backed persistence, the snapshot hub, the HTTP/websocket API, and
// graceful shutdown on OS signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zlvtv/TeamBridge-sub000/internal/logging"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/config"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/httpapi"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/hub"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/services"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/shared/db"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	repos          db.RepositoryManager
	messageService *services.MessageService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	repos, err := db.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	h := hub.New()
	ms := services.NewMessageService(repos.Projects(), repos.Messages(), h, logger)

	return &App{config: c, logger: logger, repos: repos, messageService: ms}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	mux := http.NewServeMux()
	api := httpapi.NewServer(app.messageService, services.NewAttachmentService(app.config), []byte(app.config.SecretKey), app.logger)
	api.Register(mux)

	srv := &http.Server{Addr: app.config.EndpointAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "server error", "error", err)
	}

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "server stopped")
}

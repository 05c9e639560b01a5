package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"

	"github.com/zlvtv/TeamBridge-sub000/internal/client/config"
	"github.com/zlvtv/TeamBridge-sub000/internal/client/localdb"
	"github.com/zlvtv/TeamBridge-sub000/internal/client/readstate"
	"github.com/zlvtv/TeamBridge-sub000/internal/client/services"
	"github.com/zlvtv/TeamBridge-sub000/internal/client/store"
	"github.com/zlvtv/TeamBridge-sub000/internal/logging"

	"log/slog"

	_ "modernc.org/sqlite"
)

type App struct {
	config         *config.Config
	messageService services.MessageService
	repos          *localdb.Repositories
	reader         *bufio.Reader
	out            io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	if cfg.AccessToken == "" {
		token, err := GetToken(os.Stdout)
		if err != nil {
			return nil, err
		}
		cfg.AccessToken = string(token)
	}
	if cfg.UserID == "" {
		userID, err := GetSimpleText(reader, "Enter your user id", os.Stdout)
		if err != nil {
			return nil, err
		}
		cfg.UserID = userID
	}
	if cfg.OrganizationID == "" {
		orgID, err := GetSimpleText(reader, "Enter your organization id", os.Stdout)
		if err != nil {
			return nil, err
		}
		cfg.OrganizationID = orgID
	}

	repos, err := localdb.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	st := store.NewHTTPStore(cfg.ServerBaseURL, cfg.AccessToken)
	tracker := readstate.NewTracker(repos.ReadState, st, logger)
	ms := services.NewMessageService(st, tracker, logger, cfg.UserID)

	return &App{
		config:         cfg,
		messageService: ms,
		repos:          repos,
		reader:         reader,
		out:            os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, func() string { return a.config.OrganizationID }, scanner)
}

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/adermis/adermis/internal/clinics"
	"github.com/adermis/adermis/internal/consult"
	"github.com/adermis/adermis/internal/envstruct"
	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/inference"
	"github.com/adermis/adermis/internal/journey"
	"github.com/adermis/adermis/internal/logging"
	"github.com/adermis/adermis/internal/pprofserver"
	"github.com/adermis/adermis/internal/repositories"
	"github.com/adermis/adermis/internal/sqlite"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	users          *repositories.UserRepository
	scans          *repositories.ScanRepository
	journey        *journey.Store
	images         *journey.ImageCache
	inference      *inference.Client
	clinics        *clinics.Client
	assistant      consult.Assistant
	chatLog        *consult.Log
	signalHub      *consult.SignalHub
	htmx           *htmx.HTMX
}

type configuration struct {
	Addr       string `env:"ADERMIS_ADDR" envDefault:"localhost:4000"`
	PprofPort  string `env:"ADERMIS_PPROF_PORT" envDefault:":6060"`
	SQLiteURL  string `env:"ADERMIS_SQLITE_URL" envDefault:"./adermis.sqlite"`
	BackendURL string `env:"ADERMIS_BACKEND_URL" envDefault:"http://localhost:5000"`
	// Empty means the official OpenAI endpoint.
	OpenAIBaseURL string `env:"ADERMIS_OPENAI_BASE_URL" envDefault:""`
}

// Uploaded images wait server-side for the analysis step; an hour covers even
// a very distracted visitor.
const imageCacheTTL = time.Hour

func main() {
	loggerHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{ //nolint:exhaustruct // this is better for readability
		Level:     slog.LevelDebug,
		AddSource: true,
	})
	logger := slog.New(logging.NewContextHandler(loggerHandler))

	// A missing .env file is fine; production deployments configure through
	// real environment variables.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var config configuration
	if err := envstruct.Populate(&config, lookupEnv); err != nil {
		return errors.Wrap(err, "parse configuration")
	}

	// Initialise pprof listening on localhost so that it's not open to the world.
	pprofserver.Launch(config.PprofPort, logger)

	db, err := sqlite.NewDatabase(ctx, config.SQLiteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", config.SQLiteURL))
	}
	defer db.Close()

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		users:          repositories.NewUserRepository(db, logger),
		scans:          repositories.NewScanRepository(db, logger),
		journey:        journey.NewStore(sessionManager),
		images:         journey.NewImageCache(imageCacheTTL),
		inference:      inference.NewClient(config.BackendURL, logger),
		clinics:        clinics.NewClient(config.BackendURL, logger),
		assistant:      consult.NewOpenAIAssistant(config.OpenAIBaseURL),
		chatLog:        consult.NewLog(sessionManager),
		signalHub:      consult.NewSignalHub(logger),
		htmx:           htmx.New(),
	}

	return app.configureAndStartServer(ctx, config.Addr)
}

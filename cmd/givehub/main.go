package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"givehub/internal/account"
	"givehub/internal/auth"
	"givehub/internal/config"
	"givehub/internal/db"
	"givehub/internal/donation"
	"givehub/internal/graph"
	httpx "givehub/internal/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := newLogger(cfg.AppEnv)

	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn().Msg("JWT_SECRET is unset; using the insecure development default")
	}

	ctx := context.Background()
	mdb, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect mongo")
	}
	if err := db.EnsureIndexes(ctx, mdb); err != nil {
		logger.Fatal().Err(err).Msg("ensure indexes")
	}

	signer := auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL)
	users := account.NewMongoStore(mdb)
	donations := donation.NewMongoStore(mdb)

	accounts := account.NewService(users, signer, logger)
	ledger := donation.NewService(donations, users, logger)

	schema, err := graph.NewSchema(accounts, ledger)
	if err != nil {
		logger.Fatal().Err(err).Msg("build schema")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(cfg, logger, schema, signer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("server stopped")
}

func newLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vincent-heng/viking-warband/api"
	"github.com/vincent-heng/viking-warband/bot"
	"github.com/vincent-heng/viking-warband/config"
	"github.com/vincent-heng/viking-warband/game"
	"github.com/vincent-heng/viking-warband/game/db"
	"github.com/vincent-heng/viking-warband/wallet"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load configuration")
	}

	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", conf.LogLevel).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(level)
	if conf.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().Msg("Starting...")

	database, err := db.New(conf.DBDialect, conf.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("dialect", conf.DBDialect).Msg("error connecting to database")
	}
	defer database.Close()

	svc := game.New(database, game.WithTurnDelay(conf.EnemyTurnDelay))
	wallets := wallet.NewMock(conf.WalletPaymentDelay, time.Now().UnixNano())

	srv := &http.Server{
		Addr:              conf.HTTPAddr,
		Handler:           api.New(svc, wallets),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if conf.DiscordToken != "" {
		b, err := bot.New(conf, svc)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating Discord session")
		}
		if err := b.Open(); err != nil {
			log.Fatal().Err(err).Msg("error opening Discord connection")
		}
		defer b.Close()
		log.Info().Msg("Bot is now running")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", conf.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cannot shut down http server")
	}
}

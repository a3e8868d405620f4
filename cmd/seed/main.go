package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/config"
	"bookshelf/internal/library"
	"bookshelf/internal/platform/logging"
)

func main() {
	file := flag.String("file", "", "YAML file with libraries to seed (defaults to the built-in list)")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})
	if err != nil {
		// Only the database settings matter here.
		logging.Warn().Err(err).Msg("configuration incomplete")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seeds, err := loadLibraries(*file)
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot load seeds")
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		logging.Fatal().Err(err).Str("dsn", config.RedactDSN(cfg.DSN)).Msg("failed to connect to database")
	}
	defer pool.Close()

	repo := library.NewPostgresRepo(pool, cfg.DBTimeout)
	for _, s := range seeds {
		l := s.library()
		if err := repo.Create(ctx, &l); err != nil {
			logging.Fatal().Err(err).Str("library", s.Name).Msg("seed failed")
		}
		_, located := l.Location()
		logging.Info().Str("id", l.ID).Str("library", l.Name).Bool("located", located).Msg("library seeded")
	}
	logging.Info().Int("count", len(seeds)).Msg("seed complete")
}

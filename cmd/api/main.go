package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/auth"
	"bookshelf/internal/book"
	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	"bookshelf/internal/favorite"
	"bookshelf/internal/httpx"
	"bookshelf/internal/ingest"
	"bookshelf/internal/library"
	"bookshelf/internal/platform/googlebooks"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/platform/openlibrary"
	"bookshelf/internal/platform/provider"
	"bookshelf/internal/user"
)

const userAgent = "bookshelf/1.0 (+https://github.com/bookshelf)"

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, cfg.DSN)
	defer dbPool.Close()

	table := catalog.DefaultTable()
	if cfg.CategoryTablePath != "" {
		table, err = catalog.LoadTable(cfg.CategoryTablePath)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.CategoryTablePath).Msg("cannot load category table")
		}
	}
	normalizer := catalog.NewNormalizer(table)
	mapper := &catalog.Mapper{CoverFallback: openlibrary.CoverURL}
	books := newProvider(cfg)

	bookService := book.NewService(books, mapper)
	runRepo := ingest.NewPostgresRepo(dbPool, cfg.DBTimeout)
	ingestService := ingest.NewService(books, runRepo, mapper, normalizer, ingest.Config{
		Subjects:    cfg.Subjects,
		MaxResults:  cfg.MaxResults,
		Concurrency: cfg.Concurrency,
	})
	favoriteService := favorite.NewService(favorite.NewPostgresStore(dbPool, cfg.DBTimeout), bookService)
	libraryService := library.NewService(library.NewPostgresRepo(dbPool, cfg.DBTimeout))
	userService := user.NewService(user.NewPostgresRepo(dbPool, cfg.DBTimeout))
	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL, userService)

	router := newRouter(handlers{
		book:     book.NewHTTPHandler(bookService),
		catalog:  ingest.NewHTTPHandler(ingestService, runRepo, cfg.InternalSecret),
		favorite: favorite.NewHTTPHandler(favoriteService),
		library:  library.NewHTTPHandler(libraryService, cfg.DefaultRef),
		user:     user.NewHTTPHandler(userService),
		auth:     auth.NewHTTPHandler(authService),
		ready: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
			defer cancel()
			return dbPool.Ping(ctx)
		},
	}, routerConfig{
		jwtSecret:    cfg.JWTSecret,
		corsOrigins:  cfg.CORSOrigins,
		enableHSTS:   cfg.EnableHSTS,
		rateLimiter:  httpx.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		maxBodyBytes: 1 << 20,
	})

	go ingestService.Start(ctx, cfg.RefreshInterval)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("server shutdown")
		}
	}()

	logging.Info().
		Str("addr", cfg.Addr).
		Str("provider", cfg.Provider).
		Strs("subjects", cfg.Subjects).
		Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal().Err(err).Msg("server error")
	}
	logging.Info().Msg("server stopped")
}

func newProvider(cfg config.Config) book.Provider {
	opts := provider.Options{
		UserAgent:  userAgent,
		RPS:        cfg.ProviderRPS,
		MaxRetries: cfg.ProviderMaxRetries,
	}
	if cfg.Provider == config.ProviderOpenLibrary {
		return openlibrary.NewClient("", opts)
	}
	return googlebooks.NewClient("", cfg.GoogleBooksAPIKey, opts)
}

func mustOpenDB(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logging.Fatal().Err(err).Str("dsn", config.RedactDSN(dsn)).Msg("cannot ping database")
	}
	logging.Info().Msg("database connection OK")
	return pool
}

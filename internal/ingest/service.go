package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"bookshelf/internal/catalog"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/platform/metrics"
)

// ErrAllSubjectsFailed is returned when no subject could be fetched.
var ErrAllSubjectsFailed = errors.New("ingest: every subject failed")

type Config struct {
	Subjects    []string
	MaxResults  int
	Concurrency int
}

// Searcher is the provider query the round needs.
type Searcher interface {
	Search(ctx context.Context, query string, startIndex, maxResults int) ([]catalog.RawBook, error)
}

type Service struct {
	searcher   Searcher
	runs       Repository
	mapper     *catalog.Mapper
	normalizer *catalog.Normalizer
	cfg        Config
	latest     atomic.Pointer[Result]
	flight     singleflight.Group
}

func NewService(searcher Searcher, runs Repository, mapper *catalog.Mapper, normalizer *catalog.Normalizer, cfg Config) *Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxResults < 1 {
		cfg.MaxResults = 40
	}
	return &Service{
		searcher:   searcher,
		runs:       runs,
		mapper:     mapper,
		normalizer: normalizer,
		cfg:        cfg,
	}
}

// Latest returns the catalog of the last round that produced one.
func (s *Service) Latest() (Result, bool) {
	r := s.latest.Load()
	if r == nil {
		return Result{}, false
	}
	return *r, true
}

// Run fetches every configured subject, then deduplicates and groups the
// combined records. A failing subject is recorded and skipped; only when all
// of them fail is an error returned.
//
// Calls that arrive while a round is in flight wait for that round and share
// its result. The round itself is not cancelled when one caller goes away.
func (s *Service) Run(ctx context.Context) (Result, error) {
	ch := s.flight.DoChan("round", func() (any, error) {
		res, err := s.run(context.WithoutCancel(ctx))
		return res, err
	})
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		return r.Val.(Result), r.Err
	}
}

func (s *Service) run(ctx context.Context) (Result, error) {
	subjects := s.cfg.Subjects
	run := Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Status:    StatusRunning,
		Subjects:  subjects,
	}
	log := logging.Ctx(ctx).With().Str("run_id", run.ID).Logger()

	if err := s.runs.CreateRun(ctx, &run); err != nil {
		log.Warn().Err(err).Msg("record catalog run")
	}

	slots := make([][]catalog.RawBook, len(subjects))
	errs := make([]error, len(subjects))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, subject := range subjects {
		g.Go(func() error {
			books, err := s.searcher.Search(ctx, "subject:"+subject, 0, s.cfg.MaxResults)
			metrics.RecordSubjectFetch(err)
			if err != nil {
				errs[i] = fmt.Errorf("subject %s: %w", subject, err)
				log.Warn().Err(err).Str("subject", subject).Msg("subject fetch failed")
				return nil
			}
			slots[i] = books
			return nil
		})
	}
	_ = g.Wait()

	var combined []catalog.RawBook
	for i, books := range slots {
		if errs[i] != nil {
			run.FailedSubjects = append(run.FailedSubjects, SubjectFailure{
				Subject: subjects[i],
				Error:   errs[i].Error(),
			})
			continue
		}
		combined = append(combined, books...)
	}
	run.BooksFetched = len(combined)

	var err error
	result := Result{Books: []catalog.Book{}, Groups: []catalog.GenreGroup{}}
	if len(subjects) > 0 && len(run.FailedSubjects) == len(subjects) {
		err = fmt.Errorf("%w: %w", ErrAllSubjectsFailed, errors.Join(errs...))
		run.Status = StatusFailed
		run.Error = err.Error()
	} else {
		result.Books = catalog.Dedupe(combined, s.mapper)
		result.Groups = s.normalizer.Group(result.Books)
		run.BooksUnique = len(result.Books)
		run.GenreGroups = len(result.Groups)
		run.Status = StatusCompleted
		if len(run.FailedSubjects) > 0 {
			run.Status = StatusPartial
		}
		metrics.RecordCatalogRound(run.BooksUnique, run.GenreGroups)
	}

	finished := time.Now()
	run.FinishedAt = &finished
	result.Run = run

	if uErr := s.runs.UpdateRun(ctx, &run); uErr != nil {
		log.Warn().Err(uErr).Msg("update catalog run")
	}

	if err != nil {
		log.Error().Err(err).Msg("catalog round failed")
		return result, err
	}

	s.latest.Store(&result)
	log.Info().
		Str("status", run.Status).
		Int("fetched", run.BooksFetched).
		Int("unique", run.BooksUnique).
		Int("genres", run.GenreGroups).
		Dur("took", finished.Sub(run.StartedAt)).
		Msg("catalog round finished")
	return result, nil
}

// Start runs a round immediately and then every interval until ctx is done.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	_, _ = s.Run(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Run(ctx)
		}
	}
}

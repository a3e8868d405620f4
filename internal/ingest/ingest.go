package ingest

import (
	"time"

	"bookshelf/internal/catalog"
)

// Run status values.
const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusPartial   = "PARTIAL"
	StatusFailed    = "FAILED"
)

// Run records one aggregation round.
type Run struct {
	ID             string           `json:"id"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     *time.Time       `json:"finished_at,omitempty"`
	Status         string           `json:"status"`
	Subjects       []string         `json:"subjects"`
	BooksFetched   int              `json:"books_fetched"`
	BooksUnique    int              `json:"books_unique"`
	GenreGroups    int              `json:"genre_groups"`
	FailedSubjects []SubjectFailure `json:"failed_subjects,omitempty"`
	Error          string           `json:"error,omitempty"`
}

type SubjectFailure struct {
	Subject string `json:"subject"`
	Error   string `json:"error"`
}

// Result is the catalog produced by a round.
type Result struct {
	Books  []catalog.Book       `json:"-"`
	Groups []catalog.GenreGroup `json:"groups"`
	Run    Run                  `json:"run"`
}

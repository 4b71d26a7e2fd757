package store

import (
	"context"
	"time"
)

// Evaluation is one computed answer for one configuration line.
type Evaluation struct {
	ID        string
	BatchID   string
	Reference string // "HH:MM"
	Mode      string // "compat", "standard"
	Line      string
	NextRun   string // "HH:MM", empty on error
	Day       string // "today", "tomorrow", empty on error
	Command   string
	ErrorMsg  string
	Source    string // "cli", "jobs", "api"
	CreatedAt time.Time
}

// Output renders the evaluation the way the command line prints it.
func (e *Evaluation) Output() string {
	if e.ErrorMsg != "" {
		return ""
	}
	return e.NextRun + " " + e.Day + " - " + e.Command
}

// ListOpts controls filtering and pagination for evaluation queries.
type ListOpts struct {
	BatchID string
	Limit   int
	Offset  int
}

// Stats holds aggregate counts over all recorded evaluations.
type Stats struct {
	Total    int
	Batches  int
	Today    int
	Tomorrow int
	Failures int
	LastAt   *time.Time
}

// EvaluationStore is the interface for persisting and querying evaluations.
type EvaluationStore interface {
	RecordEvaluation(ctx context.Context, e *Evaluation) error
	GetEvaluation(ctx context.Context, id string) (*Evaluation, error)
	ListEvaluations(ctx context.Context, opts ListOpts) ([]*Evaluation, error)
	GetStats(ctx context.Context) (*Stats, error)
}

package batch

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/patrickspencer/nextrun/internal/input"
	"github.com/patrickspencer/nextrun/internal/realtime"
	"github.com/patrickspencer/nextrun/internal/schedule"
	"github.com/patrickspencer/nextrun/internal/store"
)

// Recorder persists evaluations. *store.SQLiteStore implements it.
type Recorder interface {
	RecordEvaluation(ctx context.Context, e *store.Evaluation) error
}

// Publisher receives an event per evaluation. *realtime.Broker implements it.
type Publisher interface {
	Publish(evt realtime.Event)
}

// Processor evaluates configuration lines against one reference time.
type Processor struct {
	Reference schedule.TimeOfDay
	Mode      schedule.Mode
	// SkipErrors logs and skips failing lines instead of stopping.
	SkipErrors bool
	// Source labels recorded evaluations: "cli", "jobs" or "api".
	Source string

	// Optional.
	Recorder  Recorder
	Publisher Publisher
	Debug     bool
}

// Result is the outcome of evaluating one line.
type Result struct {
	Line   string
	Record schedule.Record
	Err    error
}

// Summary counts what a Run did.
type Summary struct {
	BatchID   string
	Processed int
	Failed    int
}

// Evaluate computes one line and reports it to the recorder and publisher.
func (p *Processor) Evaluate(ctx context.Context, batchID, line string) Result {
	rec, err := schedule.Evaluate(line, p.Reference, p.Mode)
	res := Result{Line: line, Record: rec, Err: err}
	p.report(ctx, batchID, res)
	return res
}

// EvaluateAll evaluates every line under one new batch ID. It never stops
// early; per-line errors are returned in the results.
func (p *Processor) EvaluateAll(ctx context.Context, lines []string) (string, []Result) {
	batchID := store.NewID()
	results := make([]Result, 0, len(lines))
	for _, line := range lines {
		results = append(results, p.Evaluate(ctx, batchID, line))
	}
	return batchID, results
}

// Run evaluates every line from src, writing one output line per input line
// to out. A failing line stops the run unless SkipErrors is set.
func (p *Processor) Run(ctx context.Context, src input.Source, out io.Writer) (Summary, error) {
	sum := Summary{BatchID: store.NewID()}

	for src.Next() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res := p.Evaluate(ctx, sum.BatchID, src.Line())
		sum.Processed++
		if res.Err != nil {
			sum.Failed++
			if !p.SkipErrors {
				return sum, fmt.Errorf("line %d: %w", src.LineNo(), res.Err)
			}
			log.Printf("WARN: skipping line %d: %v", src.LineNo(), res.Err)
			continue
		}

		if _, err := fmt.Fprintln(out, res.Record.String()); err != nil {
			return sum, fmt.Errorf("write output: %w", err)
		}
	}
	if err := src.Err(); err != nil {
		return sum, fmt.Errorf("read input: %w", err)
	}
	return sum, nil
}

func (p *Processor) report(ctx context.Context, batchID string, res Result) {
	if p.Debug {
		if res.Err != nil {
			log.Printf("DEBUG: %q -> error: %v", res.Line, res.Err)
		} else {
			log.Printf("DEBUG: %q -> %s", res.Line, res.Record)
		}
	}

	if p.Recorder != nil {
		e := toEvaluation(batchID, p.Reference, p.Mode, p.Source, res)
		if err := p.Recorder.RecordEvaluation(ctx, e); err != nil {
			log.Printf("ERROR: failed to record evaluation: %v", err)
		}
	}

	if p.Publisher != nil {
		evt := realtime.Event{
			Type:      "evaluation.completed",
			BatchID:   batchID,
			Reference: p.Reference.String(),
			Line:      res.Line,
		}
		if res.Err != nil {
			evt.Type = "evaluation.failed"
			evt.Error = res.Err.Error()
		} else {
			evt.Output = res.Record.String()
		}
		p.Publisher.Publish(evt)
	}
}

func toEvaluation(batchID string, ref schedule.TimeOfDay, mode schedule.Mode, source string, res Result) *store.Evaluation {
	e := &store.Evaluation{
		BatchID:   batchID,
		Reference: ref.String(),
		Mode:      mode.String(),
		Line:      res.Line,
		Source:    source,
	}
	if res.Err != nil {
		e.ErrorMsg = res.Err.Error()
		return e
	}
	e.NextRun = res.Record.NextRun.String()
	e.Day = res.Record.Day.String()
	e.Command = res.Record.Command
	return e
}

// Package harness drives the experiment: for each corpus position it runs
// every configured method, evaluates the accepted moves with the shared
// engine, and feeds the batch to the comparative scorer. One method's
// failure on one position costs that method that position, nothing more.
package harness

import (
	"context"
	"time"

	"chessbench/internal/corpus"
	"chessbench/internal/eval"
	"chessbench/internal/event"
	"chessbench/internal/logging"
	"chessbench/internal/method"
	"chessbench/internal/score"
)

// Result is the aggregate outcome of a full run.
type Result struct {
	Totals    []score.MethodTotals
	Positions int
	Elapsed   time.Duration
}

// Harness sequences methods over a corpus.
type Harness struct {
	methods   []method.Method
	evaluator eval.Evaluator
	bus       *event.Bus
	log       *logging.Logger
}

// New creates a harness. The bus receives progress events as positions
// are played; pass a fresh bus if nobody is listening.
func New(methods []method.Method, evaluator eval.Evaluator, bus *event.Bus, log *logging.Logger) *Harness {
	return &Harness{methods: methods, evaluator: evaluator, bus: bus, log: log}
}

// Run plays every corpus position through every method, in corpus order.
// Methods see the identical starting position for a given corpus entry;
// the corpus is never mutated by play. Run returns early only when ctx
// is cancelled.
func (h *Harness) Run(ctx context.Context, c *corpus.Corpus) (*Result, error) {
	names := make([]string, len(h.methods))
	for i, m := range h.methods {
		names[i] = m.Name()
	}
	agg := score.NewAggregator(names)
	start := time.Now()

	for i, entry := range c.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h.bus.Publish(event.NewPositionStartedEvent(i, c.Len(), entry.Raw))
		log := h.log.WithPosition(entry.Raw)

		batch := make([]score.Entry, 0, len(h.methods))
		scores := make(map[string]float64, len(h.methods))
		for _, m := range h.methods {
			e := h.playOne(ctx, m, entry, log)
			if e.Accepted && !e.EvalFailed {
				scores[e.Method] = e.Score
			}
			h.bus.Publish(event.NewMethodResolvedEvent(
				e.Method, entry.Raw, e.Move, e.Accepted, e.ReasonLabel))
			batch = append(batch, e.Entry)
		}

		winners, best := agg.Observe(batch)
		h.bus.Publish(event.NewPositionScoredEvent(entry.Raw, best, winners, scores))
	}

	elapsed := time.Since(start)
	h.bus.Publish(event.NewExperimentCompletedEvent(agg.Positions(), elapsed))
	return &Result{
		Totals:    agg.Totals(),
		Positions: agg.Positions(),
		Elapsed:   elapsed,
	}, nil
}

// playedEntry carries a score entry plus the detail only events need.
type playedEntry struct {
	score.Entry
	Move        string
	ReasonLabel string
}

// playOne resolves one method on one position and evaluates the result.
// An evaluation failure marks the entry failed rather than aborting the
// run.
func (h *Harness) playOne(ctx context.Context, m method.Method, entry corpus.Entry, log *logging.Logger) playedEntry {
	log = log.WithMethod(m.Name())

	outcome := m.Resolve(ctx, entry.Position)
	e := playedEntry{
		Entry: score.Entry{
			Method:   m.Name(),
			Position: entry.Raw,
			Accepted: outcome.Accepted(),
			Reason:   outcome.Reason,
		},
		Move: outcome.Move,
	}
	if !outcome.Accepted() {
		e.ReasonLabel = outcome.Reason.String()
		log.Info("method rejected", "reason", e.ReasonLabel, "detail", outcome.Detail)
		return e
	}

	s, err := h.evaluator.Evaluate(ctx, outcome.Result)
	if err != nil {
		e.EvalFailed = true
		log.Warn("evaluation failed", "move", outcome.Move, "error", err)
		return e
	}
	e.Score = s
	log.Info("method resolved", "move", outcome.Move, "score", s)
	return e
}

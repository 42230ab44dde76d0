// Package score implements comparative scoring across methods. On each
// position every method attempts a move; the method whose accepted move
// evaluates best earns the point, and exact ties split it evenly. A
// method's final score is its points divided by positions attempted.
package score

import (
	"fmt"

	"chessbench/internal/method"
)

// Entry is one method's result on one position, ready for aggregation.
type Entry struct {
	Method     string
	Position   string
	Accepted   bool
	Reason     method.RejectReason
	Score      float64
	EvalFailed bool
}

// MethodTotals accumulates one method's results across the corpus.
type MethodTotals struct {
	Name             string
	Attempted        int
	Points           float64
	Illegal          int
	ProposerFailures int
	Malformed        int
	NonTerminations  int
	EvalFailures     int
}

// Percentage reports points over positions attempted. ok is false when
// the method attempted nothing, in which case no percentage exists.
func (t MethodTotals) Percentage() (pct float64, ok bool) {
	if t.Attempted == 0 {
		return 0, false
	}
	return 100 * t.Points / float64(t.Attempted), true
}

// Aggregator tallies per-position batches into per-method totals.
// Position order never affects totals, so replaying the same batches in
// any order produces the same report.
type Aggregator struct {
	order  []string
	totals map[string]*MethodTotals

	positions int
}

// NewAggregator creates an aggregator reporting methods in the given order.
func NewAggregator(methods []string) *Aggregator {
	a := &Aggregator{
		order:  append([]string(nil), methods...),
		totals: make(map[string]*MethodTotals, len(methods)),
	}
	for _, name := range methods {
		a.totals[name] = &MethodTotals{Name: name}
	}
	return a
}

// Observe folds one position's batch of entries into the totals and
// returns the winning methods with the best score. A method that was
// rejected or whose evaluation failed can never win; if no method
// produced an evaluated move, nobody earns points and winners is empty.
func (a *Aggregator) Observe(batch []Entry) (winners []string, best float64) {
	a.positions++

	contenders := 0
	for _, e := range batch {
		t, ok := a.totals[e.Method]
		if !ok {
			t = &MethodTotals{Name: e.Method}
			a.totals[e.Method] = t
			a.order = append(a.order, e.Method)
		}
		t.Attempted++

		if !e.Accepted {
			switch e.Reason {
			case method.ReasonIllegalMove:
				t.Illegal++
			case method.ReasonProposerFailure:
				t.ProposerFailures++
			case method.ReasonMalformed:
				t.Malformed++
			case method.ReasonNonTermination:
				t.NonTerminations++
			}
			continue
		}
		if e.EvalFailed {
			t.EvalFailures++
			continue
		}
		if contenders == 0 || e.Score > best {
			best = e.Score
		}
		contenders++
	}
	if contenders == 0 {
		return nil, 0
	}

	// Exact ties split the point evenly, so every position distributes
	// exactly one point when anyone scores at all.
	for _, e := range batch {
		if e.Accepted && !e.EvalFailed && e.Score == best {
			winners = append(winners, e.Method)
		}
	}
	share := 1.0 / float64(len(winners))
	for _, name := range winners {
		a.totals[name].Points += share
	}
	return winners, best
}

// Totals returns per-method totals in report order.
func (a *Aggregator) Totals() []MethodTotals {
	out := make([]MethodTotals, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, *a.totals[name])
	}
	return out
}

// Positions returns how many position batches have been observed.
func (a *Aggregator) Positions() int { return a.positions }

// FormatPercentage renders a percentage, or "n/a" for a method that
// attempted no positions.
func FormatPercentage(t MethodTotals) string {
	pct, ok := t.Percentage()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", pct)
}

package score

import (
	"strings"
	"testing"
	"time"

	"chessbench/internal/method"
)

const anyFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func accepted(name string, s float64) Entry {
	return Entry{Method: name, Position: anyFEN, Accepted: true, Score: s}
}

func rejected(name string, reason method.RejectReason) Entry {
	return Entry{Method: name, Position: anyFEN, Reason: reason}
}

func totalsByName(t *testing.T, a *Aggregator) map[string]MethodTotals {
	t.Helper()
	out := make(map[string]MethodTotals)
	for _, mt := range a.Totals() {
		out[mt.Name] = mt
	}
	return out
}

func TestAggregator_SingleWinner(t *testing.T) {
	a := NewAggregator([]string{"single", "debate", "manager"})

	winners, best := a.Observe([]Entry{
		accepted("single", 0.2),
		accepted("debate", 0.5),
		rejected("manager", method.ReasonIllegalMove),
	})

	if len(winners) != 1 || winners[0] != "debate" {
		t.Fatalf("winners = %v, want [debate]", winners)
	}
	if best != 0.5 {
		t.Errorf("best = %v, want 0.5", best)
	}

	totals := totalsByName(t, a)
	if got := totals["single"]; got.Points != 0 || got.Attempted != 1 {
		t.Errorf("single totals = %+v, want 0 points over 1 attempted", got)
	}
	if got := totals["debate"]; got.Points != 1 || got.Attempted != 1 {
		t.Errorf("debate totals = %+v, want 1 point over 1 attempted", got)
	}
	if got := totals["manager"]; got.Points != 0 || got.Illegal != 1 {
		t.Errorf("manager totals = %+v, want 0 points and 1 illegal", got)
	}

	if s := FormatPercentage(totals["debate"]); s != "100.0%" {
		t.Errorf("debate percentage = %q, want 100.0%%", s)
	}
	if s := FormatPercentage(totals["single"]); s != "0.0%" {
		t.Errorf("single percentage = %q, want 0.0%%", s)
	}
}

func TestAggregator_ExactTieSplitsPoint(t *testing.T) {
	a := NewAggregator([]string{"single", "debate", "manager"})

	winners, _ := a.Observe([]Entry{
		accepted("single", 0.3),
		accepted("debate", 0.3),
		accepted("manager", -0.1),
	})

	if len(winners) != 2 {
		t.Fatalf("winners = %v, want two tied methods", winners)
	}

	totals := totalsByName(t, a)
	if totals["single"].Points != 0.5 || totals["debate"].Points != 0.5 {
		t.Errorf("tied methods got %v and %v points, want 0.5 each",
			totals["single"].Points, totals["debate"].Points)
	}

	sum := 0.0
	for _, mt := range a.Totals() {
		sum += mt.Points
	}
	if sum != 1.0 {
		t.Errorf("points across methods sum to %v, want exactly 1.0", sum)
	}
}

func TestAggregator_NearTieDoesNotSplit(t *testing.T) {
	a := NewAggregator([]string{"single", "debate"})

	winners, _ := a.Observe([]Entry{
		accepted("single", 0.3),
		accepted("debate", 0.3000000001),
	})

	if len(winners) != 1 || winners[0] != "debate" {
		t.Errorf("winners = %v, want only debate (ties are exact)", winners)
	}
}

func TestAggregator_ThreeWayTie(t *testing.T) {
	a := NewAggregator([]string{"single", "debate", "manager"})

	winners, _ := a.Observe([]Entry{
		accepted("single", 0),
		accepted("debate", 0),
		accepted("manager", 0),
	})

	if len(winners) != 3 {
		t.Fatalf("winners = %v, want all three", winners)
	}
	for _, mt := range a.Totals() {
		if mt.Points != 1.0/3.0 {
			t.Errorf("%s points = %v, want 1/3", mt.Name, mt.Points)
		}
	}
}

func TestAggregator_NoContenders(t *testing.T) {
	a := NewAggregator([]string{"single", "debate"})

	winners, _ := a.Observe([]Entry{
		rejected("single", method.ReasonProposerFailure),
		{Method: "debate", Position: anyFEN, Accepted: true, Score: 1.5, EvalFailed: true},
	})

	if winners != nil {
		t.Errorf("winners = %v, want none when nothing evaluated", winners)
	}
	totals := totalsByName(t, a)
	if totals["single"].ProposerFailures != 1 {
		t.Errorf("single proposer failures = %d, want 1", totals["single"].ProposerFailures)
	}
	if totals["debate"].EvalFailures != 1 {
		t.Errorf("debate eval failures = %d, want 1", totals["debate"].EvalFailures)
	}
	// Attempted still counts: failures drag the percentage down.
	if totals["single"].Attempted != 1 || totals["debate"].Attempted != 1 {
		t.Error("rejections and eval failures must still count as attempts")
	}
}

func TestAggregator_EmptyCorpus(t *testing.T) {
	a := NewAggregator([]string{"single"})

	if a.Positions() != 0 {
		t.Errorf("positions = %d, want 0", a.Positions())
	}
	totals := a.Totals()
	if len(totals) != 1 {
		t.Fatalf("totals = %v, want one method", totals)
	}
	if _, ok := totals[0].Percentage(); ok {
		t.Error("zero attempts must report no percentage")
	}
	if s := FormatPercentage(totals[0]); s != "n/a" {
		t.Errorf("percentage = %q, want n/a", s)
	}
}

func TestAggregator_OrderIndependence(t *testing.T) {
	batches := [][]Entry{
		{accepted("single", 0.2), accepted("debate", 0.5)},
		{accepted("single", 1.1), rejected("debate", method.ReasonIllegalMove)},
		{accepted("single", -0.4), accepted("debate", -0.4)},
	}

	forward := NewAggregator([]string{"single", "debate"})
	for _, b := range batches {
		forward.Observe(b)
	}
	backward := NewAggregator([]string{"single", "debate"})
	for i := len(batches) - 1; i >= 0; i-- {
		backward.Observe(batches[i])
	}

	ft, bt := totalsByName(t, forward), totalsByName(t, backward)
	for _, name := range []string{"single", "debate"} {
		if ft[name] != bt[name] {
			t.Errorf("%s totals differ by order: %+v vs %+v", name, ft[name], bt[name])
		}
	}
}

func TestRenderReport(t *testing.T) {
	a := NewAggregator([]string{"single", "debate"})
	a.Observe([]Entry{
		accepted("single", 0.2),
		accepted("debate", 0.5),
	})

	out := RenderReport(a.Totals(), a.Positions(), 90*time.Second)

	for _, want := range []string{"single", "debate", "100.0%", "0.0%", "1 positions"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReport_RejectionColumnsStaySeparate(t *testing.T) {
	totals := []MethodTotals{{
		Name:            "debate",
		Attempted:       9,
		Malformed:       2,
		NonTerminations: 3,
	}}

	out := RenderReport(totals, 9, time.Minute)

	for _, want := range []string{"Malformed", "NonTerm"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing column %q:\n%s", want, out)
		}
	}
	// Each rejection class keeps its own count on the data row. A merged
	// column would show their sum instead.
	var row string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "debate") {
			row = line
		}
	}
	if row == "" {
		t.Fatalf("no data row for debate:\n%s", out)
	}
	if !strings.Contains(row, "2") || !strings.Contains(row, "3") {
		t.Errorf("row missing per-class counts: %q", row)
	}
	if strings.Contains(row, "5") {
		t.Errorf("rejection classes were summed into one column: %q", row)
	}
}

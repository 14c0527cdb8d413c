package observ

import "testing"

func TestTimerReportKeepsPhaseOrder(t *testing.T) {
	tm := NewTimer()
	for _, name := range []string{"mark", "sweep", "compact"} {
		idx := tm.Begin(name)
		tm.End(idx, "")
	}
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != "mark" || r.Phases[2].Name != "compact" {
		t.Fatalf("unexpected order: %+v", r.Phases)
	}
	if NewTimer().Report().Phases != nil {
		t.Fatalf("expected empty report for unused timer")
	}
}

func TestAccumulate(t *testing.T) {
	var total Report
	total.Accumulate(Report{TotalMS: 3, Phases: []PhaseReport{{Name: "mark", DurationMS: 1}, {Name: "sweep", DurationMS: 2}}})
	total.Accumulate(Report{TotalMS: 4, Phases: []PhaseReport{{Name: "sweep", DurationMS: 1}, {Name: "roots", DurationMS: 3}}})

	if total.TotalMS != 7 {
		t.Fatalf("expected total 7, got %v", total.TotalMS)
	}
	want := []PhaseReport{{Name: "mark", DurationMS: 1}, {Name: "sweep", DurationMS: 3}, {Name: "roots", DurationMS: 3}}
	if len(total.Phases) != len(want) {
		t.Fatalf("expected %d phases, got %+v", len(want), total.Phases)
	}
	for i, p := range want {
		if total.Phases[i] != p {
			t.Fatalf("phase %d: expected %+v, got %+v", i, p, total.Phases[i])
		}
	}
}

package stat

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pable/hoopstats/internal/model"
)

func event(pts, trb, ast float64) *model.Event {
	ev := &model.Event{}
	ev.Stats[model.StatPTS] = pts
	ev.Stats[model.StatTRB] = trb
	ev.Stats[model.StatAST] = ast
	return ev
}

func TestResolveIsPure(t *testing.T) {
	for _, label := range Examples() {
		a, err := Resolve(label, Full)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", label, err)
		}
		b, err := Resolve(label, Full)
		if err != nil {
			t.Fatalf("Resolve(%q) second call: %v", label, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Resolve(%q) not stable: %#v vs %#v", label, a, b)
		}
	}
}

func TestDirectFields(t *testing.T) {
	e, err := Resolve("pts", Full)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	f, ok := e.(Field)
	if !ok || f.Stat != model.StatPTS {
		t.Fatalf("expected Field PTS, got %#v", e)
	}
	if e.Boolean() {
		t.Error("direct field should not be boolean")
	}
	if got := e.Eval(event(31, 0, 0)); got != 31 {
		t.Errorf("Eval: want 31, got %v", got)
	}
}

func TestDoubleAndTripleDouble(t *testing.T) {
	dd, _ := Resolve("DD", Full)
	td, _ := Resolve("TD", Full)

	// 10/10/5 is a double-double but not a triple-double.
	ev := event(10, 10, 5)
	if dd.Eval(ev) != 1 {
		t.Error("10/10/5 should count as DD")
	}
	if td.Eval(ev) != 0 {
		t.Error("10/10/5 should not count as TD")
	}

	ev = event(10, 10, 10)
	if dd.Eval(ev) != 1 || td.Eval(ev) != 1 {
		t.Error("10/10/10 should count as both DD and TD")
	}

	ev = event(45, 9, 9)
	if dd.Eval(ev) != 0 {
		t.Error("45/9/9 should not count as DD")
	}

	ev = event(0, 12, 0)
	ev.Stats[model.StatBLK] = 10
	if dd.Eval(ev) != 1 {
		t.Error("12 reb + 10 blk should count as DD")
	}
}

func TestThresholdLabels(t *testing.T) {
	cases := []struct {
		label string
		stat  model.Stat
		min   float64
		canon string
	}{
		{"40PTS+", model.StatPTS, 40, "40PTS+"},
		{"20trb+", model.StatTRB, 20, "20TRB+"},
		{"10AST+", model.StatAST, 10, "10AST+"},
		{"5_3P+", model.Stat3P, 5, "5_3P+"},
		{"53P+", model.Stat3P, 5, "5_3P+"},
		{"103P+", model.Stat3P, 10, "10_3P+"},
	}
	for _, c := range cases {
		e, err := Resolve(c.label, Full)
		if err != nil {
			t.Errorf("Resolve(%q): %v", c.label, err)
			continue
		}
		th, ok := e.(Threshold)
		if !ok {
			t.Errorf("Resolve(%q): expected Threshold, got %T", c.label, e)
			continue
		}
		if th.Stat != c.stat || th.Bound != c.min || th.Op != OpGE {
			t.Errorf("Resolve(%q): got %v%v%v, want %v>=%v", c.label, th.Stat, th.Op, th.Bound, c.stat, c.min)
		}
		if th.Label() != c.canon {
			t.Errorf("Resolve(%q): label %q, want %q", c.label, th.Label(), c.canon)
		}
	}

	e, _ := Resolve("40PTS+", Full)
	if e.Eval(event(40, 0, 0)) != 1 || e.Eval(event(39, 0, 0)) != 0 {
		t.Error("40PTS+ boundary is inclusive at 40")
	}
}

func TestConjunction(t *testing.T) {
	e, err := Resolve("25PTS+ & 10AST+", Full)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Label() != "25PTS+&10AST+" {
		t.Errorf("label: got %q", e.Label())
	}
	if e.Eval(event(30, 0, 11)) != 1 {
		t.Error("30/0/11 should satisfy 25PTS+&10AST+")
	}
	if e.Eval(event(30, 0, 9)) != 0 {
		t.Error("30/0/9 should not satisfy 25PTS+&10AST+")
	}
}

func TestWin(t *testing.T) {
	e, err := Resolve("Win", Full)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	ev := &model.Event{Team: "BOS", Winner: "BOS"}
	if e.Eval(ev) != 1 {
		t.Error("event team equal to winner should be a win")
	}
	ev.Team = "LAL"
	if e.Eval(ev) != 0 {
		t.Error("event team different from winner should not be a win")
	}

	if _, err := Resolve("Win", Context{Thresholds: true}); !errors.Is(err, ErrUnsupportedLabel) {
		t.Errorf("Win without game records: want ErrUnsupportedLabel, got %v", err)
	}
}

func TestUnsupportedLabels(t *testing.T) {
	for _, label := range []string{"", "XYZ", "40XYZ+", "PTS+", "25PTS+&bogus", "+"} {
		_, err := Resolve(label, Full)
		if !errors.Is(err, ErrUnsupportedLabel) {
			t.Errorf("Resolve(%q): want ErrUnsupportedLabel, got %v", label, err)
			continue
		}
		var ule *UnsupportedLabelError
		if !errors.As(err, &ule) || ule.Label != label {
			t.Errorf("Resolve(%q): error should name the label, got %v", label, err)
		}
	}

	if _, err := Resolve("40PTS+", Context{GameRecords: true}); !errors.Is(err, ErrUnsupportedLabel) {
		t.Errorf("threshold without parsing enabled: want ErrUnsupportedLabel, got %v", err)
	}
}

func TestHolds(t *testing.T) {
	pts, _ := Resolve("PTS", Full)
	if !Holds(pts, event(1, 0, 0)) || Holds(pts, event(0, 0, 0)) {
		t.Error("plain field holds when value >= 1")
	}
}

func TestComparisonTerms(t *testing.T) {
	cases := []struct {
		label string
		op    Op
		bound float64
		canon string
	}{
		{"FTA=0", OpEQ, 0, "FTA=0"},
		{"fta==0", OpEQ, 0, "FTA=0"},
		{"MP<20", OpLT, 20, "MP<20"},
		{"MP <= 20.5", OpLE, 20.5, "MP<=20.5"},
		{"TOV>5", OpGT, 5, "TOV>5"},
		{"3PA>=5", OpGE, 5, "3PA>=5"},
		{"PF!=6", OpNE, 6, "PF!=6"},
		{"+/-<0", OpLT, 0, "+/-<0"},
	}
	for _, c := range cases {
		e, err := Resolve(c.label, Full)
		if err != nil {
			t.Errorf("Resolve(%q): %v", c.label, err)
			continue
		}
		th, ok := e.(Threshold)
		if !ok || th.Op != c.op || th.Bound != c.bound {
			t.Errorf("Resolve(%q): got %#v", c.label, e)
			continue
		}
		if !e.Boolean() {
			t.Errorf("Resolve(%q): comparison should be boolean", c.label)
		}
		if e.Label() != c.canon {
			t.Errorf("Resolve(%q): label %q, want %q", c.label, e.Label(), c.canon)
		}
	}

	for _, bad := range []string{"FOO=1", "FTA=", "FTA=x", "FTA=NaN", "FTA>Inf", "=3"} {
		if _, err := Resolve(bad, Full); !errors.Is(err, ErrUnsupportedLabel) {
			t.Errorf("Resolve(%q): want ErrUnsupportedLabel, got %v", bad, err)
		}
	}
}

func TestConjunctionWithComparison(t *testing.T) {
	e, err := Resolve("30PTS+&FTA=0", Full)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Label() != "30PTS+&FTA=0" {
		t.Errorf("label: got %q", e.Label())
	}
	ev := event(32, 0, 0)
	if e.Eval(ev) != 1 {
		t.Error("32 points without free throws should hold")
	}
	ev.Stats[model.StatFTA] = 2
	if e.Eval(ev) != 0 {
		t.Error("free throw attempts should break FTA=0")
	}
	if e.Eval(event(29, 0, 0)) != 0 {
		t.Error("29 points should not hold")
	}
}

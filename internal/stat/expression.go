// Package stat resolves stat labels ("PTS", "DD", "Win", "40PTS+") into
// expressions every engine evaluates the same way.
package stat

import (
	"github.com/pable/hoopstats/internal/model"
)

// Expression is a resolved label. The set of implementations is closed:
// Field, Threshold, Composite and Win.
type Expression interface {
	// Label is the canonical spelling of the resolved label.
	Label() string
	// Boolean reports whether Eval only ever yields 0 or 1.
	Boolean() bool
	// Eval computes the per-event value in process.
	Eval(ev *model.Event) float64

	sealed()
}

// Field is a direct reference to a stored stat.
type Field struct {
	Stat model.Stat
}

func (f Field) Label() string                { return f.Stat.String() }
func (f Field) Boolean() bool                { return false }
func (f Field) Eval(ev *model.Event) float64 { return ev.Value(f.Stat) }
func (Field) sealed()                        {}

// Op is a comparison between a stat and a bound. The zero value is >=.
type Op int

const (
	OpGE Op = iota
	OpGT
	OpLE
	OpLT
	OpEQ
	OpNE
)

var opSymbols = [...]string{OpGE: ">=", OpGT: ">", OpLE: "<=", OpLT: "<", OpEQ: "=", OpNE: "!="}

// String returns the operator as written in labels and SQL.
func (o Op) String() string {
	if o < 0 || int(o) >= len(opSymbols) {
		return "?"
	}
	return opSymbols[o]
}

// Compare applies the operator to v and bound.
func (o Op) Compare(v, bound float64) bool {
	switch o {
	case OpGT:
		return v > bound
	case OpLE:
		return v <= bound
	case OpLT:
		return v < bound
	case OpEQ:
		return v == bound
	case OpNE:
		return v != bound
	}
	return v >= bound
}

// Threshold is true when a stored stat compares to Bound under Op. The
// "<N><CAT>+" labels are the OpGE form.
type Threshold struct {
	Stat  model.Stat
	Op    Op
	Bound float64
	// label keeps the canonical spelling; zero value renders from the fields.
	label string
}

func (t Threshold) Label() string {
	if t.label != "" {
		return t.label
	}
	if t.Op == OpGE && t.Bound == float64(int(t.Bound)) {
		return thresholdLabel(int(t.Bound), t.Stat)
	}
	return comparisonLabel(t.Stat, t.Op, t.Bound)
}
func (t Threshold) Boolean() bool { return true }
func (t Threshold) Eval(ev *model.Event) float64 {
	return boolValue(t.Op.Compare(ev.Value(t.Stat), t.Bound))
}
func (Threshold) sealed() {}

// Composite is true when at least Need of its Terms hold. Double-double and
// triple-double are five terms with Need 2 and 3; a conjunction label such
// as "25PTS+&10AST+" or "30PTS+&FTA=0" needs every term.
type Composite struct {
	Name  string
	Terms []Threshold
	Need  int
}

func (c Composite) Label() string { return c.Name }
func (c Composite) Boolean() bool { return true }
func (c Composite) Eval(ev *model.Event) float64 {
	hits := 0
	for _, t := range c.Terms {
		if t.Eval(ev) == 1 {
			hits++
		}
	}
	return boolValue(hits >= c.Need)
}
func (Composite) sealed() {}

// Win compares the event's team with the winner recorded on the game row.
// Team identity is the one on the event itself, so mid-season trades are
// handled per game.
type Win struct{}

func (Win) Label() string { return "Win" }
func (Win) Boolean() bool { return true }
func (Win) Eval(ev *model.Event) float64 {
	return boolValue(ev.Team != "" && ev.Team == ev.Winner)
}
func (Win) sealed() {}

// Holds reads e as a condition. Boolean expressions hold when they evaluate
// to 1; plain fields hold when the value is at least 1.
func Holds(e Expression, ev *model.Event) bool {
	return e.Eval(ev) >= 1
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

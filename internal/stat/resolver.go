package stat

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pable/hoopstats/internal/model"
)

// ErrUnsupportedLabel matches every *UnsupportedLabelError via errors.Is.
var ErrUnsupportedLabel = errors.New("unsupported label")

// UnsupportedLabelError names a label that does not resolve.
type UnsupportedLabelError struct {
	Label  string
	Reason string
}

func (e *UnsupportedLabelError) Error() string {
	return fmt.Sprintf("unsupported label %q: %s", e.Label, e.Reason)
}

func (e *UnsupportedLabelError) Is(target error) bool {
	return target == ErrUnsupportedLabel
}

// Context describes what the caller can evaluate.
type Context struct {
	// GameRecords is set when game metadata is joined, enabling "Win".
	GameRecords bool
	// Thresholds enables "<N><CAT>+" parsing.
	Thresholds bool
}

// Full is the context every engine runs with.
var Full = Context{GameRecords: true, Thresholds: true}

// doubleDigitStats are the categories counted for double- and triple-doubles.
var doubleDigitStats = []model.Stat{model.StatPTS, model.StatTRB, model.StatAST, model.StatSTL, model.StatBLK}

// Resolve turns a label into an Expression. It is pure: the same label and
// context always produce an equal Expression.
func Resolve(label string, ctx Context) (Expression, error) {
	s := strings.TrimSpace(label)
	if s == "" {
		return nil, &UnsupportedLabelError{Label: label, Reason: "empty label"}
	}

	if strings.Contains(s, "&") {
		return resolveConjunction(label, s, ctx)
	}

	switch strings.ToUpper(s) {
	case "DD":
		return doubleDigits("DD", 2), nil
	case "TD":
		return doubleDigits("TD", 3), nil
	case "WIN":
		if !ctx.GameRecords {
			return nil, &UnsupportedLabelError{Label: label, Reason: "requires game records"}
		}
		return Win{}, nil
	}

	if st, ok := model.LookupStat(s); ok {
		return Field{Stat: st}, nil
	}

	if strings.ContainsAny(s, comparisonChars) {
		if !ctx.Thresholds {
			return nil, &UnsupportedLabelError{Label: label, Reason: "threshold labels not enabled"}
		}
		t, err := parseComparison(s)
		if err != nil {
			return nil, &UnsupportedLabelError{Label: label, Reason: err.Error()}
		}
		return t, nil
	}

	if strings.HasSuffix(s, "+") && len(s) > 1 {
		if !ctx.Thresholds {
			return nil, &UnsupportedLabelError{Label: label, Reason: "threshold labels not enabled"}
		}
		t, err := parseThreshold(s)
		if err != nil {
			return nil, &UnsupportedLabelError{Label: label, Reason: err.Error()}
		}
		return t, nil
	}

	return nil, &UnsupportedLabelError{Label: label, Reason: "not a stored stat or derived label"}
}

func doubleDigits(name string, need int) Composite {
	terms := make([]Threshold, len(doubleDigitStats))
	for i, st := range doubleDigitStats {
		terms[i] = Threshold{Stat: st, Bound: 10}
	}
	return Composite{Name: name, Terms: terms, Need: need}
}

func resolveConjunction(label, s string, ctx Context) (Expression, error) {
	if !ctx.Thresholds {
		return nil, &UnsupportedLabelError{Label: label, Reason: "threshold labels not enabled"}
	}
	parts := strings.Split(s, "&")
	terms := make([]Threshold, 0, len(parts))
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		t, err := parseTerm(p)
		if err != nil {
			return nil, &UnsupportedLabelError{Label: label, Reason: fmt.Sprintf("term %q: %v", p, err)}
		}
		terms = append(terms, t)
		names = append(names, t.Label())
	}
	return Composite{Name: strings.Join(names, "&"), Terms: terms, Need: len(terms)}, nil
}

// parseTerm reads one conjunction term: a "<N><CAT>+" threshold or a
// comparison such as "FTA=0".
func parseTerm(s string) (Threshold, error) {
	if strings.ContainsAny(s, comparisonChars) {
		return parseComparison(s)
	}
	return parseThreshold(s)
}

const comparisonChars = "<>=!"

// comparisonOps is ordered so two-character operators match first.
var comparisonOps = []struct {
	sym string
	op  Op
}{
	{">=", OpGE}, {"<=", OpLE}, {"!=", OpNE}, {"==", OpEQ},
	{">", OpGT}, {"<", OpLT}, {"=", OpEQ},
}

// parseComparison reads "<CAT><op><N>", e.g. "FTA=0", "MP<20", "3PA>=5".
func parseComparison(s string) (Threshold, error) {
	i := strings.IndexAny(s, comparisonChars)
	cat := strings.TrimSpace(s[:i])
	rest := s[i:]
	for _, c := range comparisonOps {
		bound, ok := strings.CutPrefix(rest, c.sym)
		if !ok {
			continue
		}
		st, ok := model.LookupStat(cat)
		if !ok {
			return Threshold{}, fmt.Errorf("unknown category %q", cat)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(bound), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Threshold{}, fmt.Errorf("bad bound %q", bound)
		}
		return Threshold{Stat: st, Op: c.op, Bound: v, label: comparisonLabel(st, c.op, v)}, nil
	}
	return Threshold{}, fmt.Errorf("bad comparison %q", s)
}

func comparisonLabel(st model.Stat, op Op, v float64) string {
	return st.String() + op.String() + strconv.FormatFloat(v, 'f', -1, 64)
}

// parseThreshold reads "<N><CAT>+" or "<N>_<CAT>+". Because categories can
// start with a digit ("3P"), the longest numeric prefix that leaves a known
// category wins: "53P+" is five threes, "40PTS+" is forty points.
func parseThreshold(s string) (Threshold, error) {
	body, ok := strings.CutSuffix(s, "+")
	if !ok {
		return Threshold{}, errors.New("threshold label must end with '+'")
	}
	digits := 0
	for digits < len(body) && unicode.IsDigit(rune(body[digits])) {
		digits++
	}
	if digits == 0 {
		return Threshold{}, errors.New("threshold label must start with a number")
	}
	for i := digits; i >= 1; i-- {
		cat := strings.TrimPrefix(body[i:], "_")
		if cat == "" {
			continue
		}
		st, ok := model.LookupStat(cat)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(body[:i])
		if err != nil {
			return Threshold{}, err
		}
		return Threshold{Stat: st, Bound: float64(n), label: thresholdLabel(n, st)}, nil
	}
	return Threshold{}, fmt.Errorf("unknown category in %q", s)
}

func thresholdLabel(n int, st model.Stat) string {
	name := st.String()
	if name != "" && unicode.IsDigit(rune(name[0])) {
		return fmt.Sprintf("%d_%s+", n, name)
	}
	return fmt.Sprintf("%d%s+", n, name)
}

// Examples lists representative labels for help text and prompts.
func Examples() []string {
	out := make([]string, 0, int(model.NumStats)+10)
	for _, st := range model.AllStats() {
		out = append(out, st.String())
	}
	return append(out, "DD", "TD", "Win", "40PTS+", "20TRB+", "10AST+", "5_3P+", "25PTS+&10AST+", "30PTS+&FTA=0", "MP<20")
}

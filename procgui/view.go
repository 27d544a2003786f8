package procgui

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/golly-go/lsys/drawing"
	"github.com/golly-go/lsys/lsys"
	"github.com/golly-go/lsys/observer"
	"github.com/sirupsen/logrus"
)

// RuleRow is one editable line of the rule buffer. Rows whose predecessor
// duplicates another row are kept but marked invalid and are not synced.
type RuleRow struct {
	Predecessor string
	Successor   string
	Valid       bool
}

// LSystemView keeps the geometry of an L-system up to date with its grammar
// and drawing parameters. It observes both models and recomputes whenever
// either changes; Close stops that.
type LSystemView struct {
	lsys   *lsys.LSystem
	params *drawing.Parameters

	grammar  *observer.Observer[*lsys.LSystem]
	drawing  *observer.Observer[*drawing.Parameters]
	watchers observer.Group

	rules   []RuleRow
	syncing bool

	segments   []drawing.Segment
	recomputes int

	logger *logrus.Entry
}

// NewLSystemView binds a view to l and p and computes the initial geometry.
func NewLSystemView(l *lsys.LSystem, p *drawing.Parameters) (*LSystemView, error) {
	v := &LSystemView{
		lsys:   l,
		params: p,
		logger: observer.Logger().WithField("view", "lsystem"),
	}

	var err error
	if v.grammar, err = observer.Watch(&v.watchers, l, v.onGrammarChanged); err != nil {
		return nil, fmt.Errorf("procgui: watch lsystem: %w", err)
	}

	if v.drawing, err = observer.Watch(&v.watchers, p, v.recompute); err != nil {
		_ = v.watchers.Close()
		return nil, fmt.Errorf("procgui: watch drawing parameters: %w", err)
	}

	v.loadRules()
	v.recompute()
	return v, nil
}

// Close detaches the view from both models.
func (v *LSystemView) Close() error {
	return v.watchers.Close()
}

func (v *LSystemView) LSystem() *lsys.LSystem          { return v.lsys }
func (v *LSystemView) Parameters() *drawing.Parameters { return v.params }

// Segments returns the cached geometry.
func (v *LSystemView) Segments() []drawing.Segment { return v.segments }

// Bound reports whether the view still observes both models.
func (v *LSystemView) Bound() bool { return v.grammar.Bound() && v.drawing.Bound() }

// Recomputes counts how many times the geometry was rebuilt.
func (v *LSystemView) Recomputes() int { return v.recomputes }

// Rules returns a copy of the rule buffer.
func (v *LSystemView) Rules() []RuleRow {
	return append([]RuleRow(nil), v.rules...)
}

// AddRow appends an empty rule row.
func (v *LSystemView) AddRow() int {
	v.rules = append(v.rules, RuleRow{Valid: true})
	return len(v.rules) - 1
}

// RemoveRow drops row i and syncs the remaining rules.
func (v *LSystemView) RemoveRow(i int) error {
	if err := v.checkRow(i); err != nil {
		return err
	}

	v.rules = append(v.rules[:i], v.rules[i+1:]...)
	v.revalidate()
	v.Sync()
	return nil
}

// SetPredecessor edits the predecessor of row i. It returns whether the row
// is valid afterwards; an invalid row keeps its text but is left out of Sync.
func (v *LSystemView) SetPredecessor(i int, pred string) (bool, error) {
	if err := v.checkRow(i); err != nil {
		return false, err
	}
	if utf8.RuneCountInString(pred) > 1 {
		return false, fmt.Errorf("procgui: predecessor %q must be a single symbol", pred)
	}

	v.rules[i].Predecessor = pred
	v.revalidate()

	if v.rules[i].Valid {
		v.Sync()
	}
	return v.rules[i].Valid, nil
}

// SetSuccessor edits the successor of row i and syncs.
func (v *LSystemView) SetSuccessor(i int, succ string) error {
	if err := v.checkRow(i); err != nil {
		return err
	}

	v.rules[i].Successor = succ
	v.Sync()
	return nil
}

// Sync pushes every valid, non-empty row to the model as one change.
func (v *LSystemView) Sync() {
	rules := lsys.Rules{}
	for _, row := range v.rules {
		if !row.Valid || row.Predecessor == "" {
			continue
		}
		pred, _ := utf8.DecodeRuneInString(row.Predecessor)
		rules[pred] = row.Successor
	}

	v.syncing = true
	defer func() { v.syncing = false }()

	v.lsys.SetRules(rules)
}

func (v *LSystemView) onGrammarChanged() {
	// Changes made elsewhere replace the buffer; our own Sync must not, or
	// rows that are invalid or still empty would be lost.
	if !v.syncing {
		v.loadRules()
	}
	v.recompute()
}

func (v *LSystemView) loadRules() {
	rules := v.lsys.Rules()

	preds := make([]rune, 0, len(rules))
	for pred := range rules {
		preds = append(preds, pred)
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i] < preds[j] })

	v.rules = v.rules[:0]
	for _, pred := range preds {
		v.rules = append(v.rules, RuleRow{
			Predecessor: string(pred),
			Successor:   rules[pred],
			Valid:       true,
		})
	}
}

// revalidate marks every row whose predecessor appears on an earlier row as
// invalid.
func (v *LSystemView) revalidate() {
	seen := map[string]bool{}
	for i := range v.rules {
		pred := v.rules[i].Predecessor
		v.rules[i].Valid = pred == "" || !seen[pred]
		if pred != "" {
			seen[pred] = true
		}
	}
}

func (v *LSystemView) recompute() {
	s := v.params.Snapshot()
	program := v.lsys.Produce(s.Iterations)

	v.segments = drawing.ComputeSegments(program, s)
	v.recomputes++

	v.logger.WithFields(logrus.Fields{
		"iterations": s.Iterations,
		"symbols":    len(program),
		"segments":   len(v.segments),
	}).Debug("recomputed geometry")
}

func (v *LSystemView) checkRow(i int) error {
	if i < 0 || i >= len(v.rules) {
		return fmt.Errorf("procgui: rule row %d out of range [0,%d)", i, len(v.rules))
	}
	return nil
}

package lsys

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/golly-go/lsys/observer"
	"github.com/sirupsen/logrus"
)

// Rules maps a predecessor symbol to its successor string.
type Rules map[rune]string

// LSystem is a rewrite grammar: an axiom and one production rule per symbol.
// Every change to the axiom or the rules notifies its observers.
type LSystem struct {
	observer.Observable

	mu    sync.RWMutex
	axiom string
	rules Rules

	// cache[i] is the axiom rewritten i times; cache[0] is the axiom.
	cache []string
}

// New returns an LSystem with a copy of rules.
func New(axiom string, rules Rules, opts ...observer.Option) *LSystem {
	l := &LSystem{
		axiom: axiom,
		rules: make(Rules, len(rules)),
	}
	for pred, succ := range rules {
		l.rules[pred] = succ
	}
	l.reset()

	l.Configure(append([]observer.Option{observer.WithName("lsystem")}, opts...)...)
	return l
}

func (l *LSystem) Axiom() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.axiom
}

// Rules returns a copy of the production rules.
func (l *LSystem) Rules() Rules {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rules := make(Rules, len(l.rules))
	for pred, succ := range l.rules {
		rules[pred] = succ
	}
	return rules
}

func (l *LSystem) SetAxiom(axiom string) {
	l.mu.Lock()
	l.axiom = axiom
	l.reset()
	l.mu.Unlock()

	l.changed("axiom")
}

// AddRule adds or replaces the rule for pred.
func (l *LSystem) AddRule(pred rune, succ string) {
	l.mu.Lock()
	l.rules[pred] = succ
	l.reset()
	l.mu.Unlock()

	l.changed("rule")
}

// RemoveRule drops the rule for pred. Removing a missing rule changes nothing
// and does not notify.
func (l *LSystem) RemoveRule(pred rune) {
	l.mu.Lock()
	_, ok := l.rules[pred]
	if ok {
		delete(l.rules, pred)
		l.reset()
	}
	l.mu.Unlock()

	if ok {
		l.changed("rule")
	}
}

func (l *LSystem) ClearRules() {
	l.mu.Lock()
	l.rules = Rules{}
	l.reset()
	l.mu.Unlock()

	l.changed("rules")
}

// SetRules replaces every rule at once with a single notification.
func (l *LSystem) SetRules(rules Rules) {
	l.mu.Lock()
	l.rules = make(Rules, len(rules))
	for pred, succ := range rules {
		l.rules[pred] = succ
	}
	l.reset()
	l.mu.Unlock()

	l.changed("rules")
}

// Produce rewrites the axiom n times. Results are cached per iteration until
// the grammar changes.
func (l *LSystem) Produce(n int) string {
	if n < 0 {
		n = 0
	}

	l.mu.RLock()
	if n < len(l.cache) {
		s := l.cache[n]
		l.mu.RUnlock()
		return s
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	for len(l.cache) <= n {
		l.cache = append(l.cache, rewrite(l.cache[len(l.cache)-1], l.rules))
	}
	return l.cache[n]
}

// String renders the grammar as "axiom; A -> B; ..." with rules sorted.
func (l *LSystem) String() string {
	rules := l.Rules()

	preds := make([]rune, 0, len(rules))
	for pred := range rules {
		preds = append(preds, pred)
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i] < preds[j] })

	var b strings.Builder
	b.WriteString(l.Axiom())
	for _, pred := range preds {
		fmt.Fprintf(&b, "; %c -> %s", pred, rules[pred])
	}
	return b.String()
}

// reset expects l.mu to be held.
func (l *LSystem) reset() {
	l.cache = []string{l.axiom}
}

func (l *LSystem) changed(what string) {
	observer.Logger().WithFields(logrus.Fields{
		"model":  l.Name(),
		"change": what,
	}).Debug("lsystem changed")

	l.Notify()
}

func rewrite(s string, rules Rules) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if succ, ok := rules[r]; ok {
			b.WriteString(succ)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

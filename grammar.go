package bnf

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Production rule

type ProductionRule struct {
	Head Symbol
	Body []Symbol
}

func NewRule(head Symbol, body ...Symbol) ProductionRule {
	return ProductionRule{Head: head, Body: body}
}

// Key identifies a rule by its structure, so two rules with the same head and
// body always share a key.
func (r ProductionRule) Key() string {
	var b strings.Builder

	writeSymbolKey(&b, r.Head)

	for _, symbol := range r.Body {
		b.WriteByte(' ')
		writeSymbolKey(&b, symbol)
	}

	return b.String()
}

func writeSymbolKey(b *strings.Builder, s Symbol) {
	if s.IsNonterminal() {
		b.WriteByte('N')
	} else {
		b.WriteByte('T')
	}

	b.WriteString(strconv.Quote(s.Text))
}

// IsEpsilon reports whether the rule derives the empty string directly.
func (r ProductionRule) IsEpsilon() bool {
	return len(r.Body) == 0
}

func (r ProductionRule) IsUnit() bool {
	return len(r.Body) == 1 && r.Body[0].IsNonterminal()
}

func (r ProductionRule) String() string {
	parts := make([]string, len(r.Body))

	for i, symbol := range r.Body {
		parts[i] = symbol.Text
	}

	return strings.TrimRight(fmt.Sprintf("%s ::= %s", r.Head, strings.Join(parts, " ")), " ")
}

func compareBodies(a, b []Symbol) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareSymbols(a[i], b[i]); c != 0 {
			return c
		}
	}

	return len(a) - len(b)
}

// Grammar

// Grammar is an immutable context-free grammar. Build it with Build or New;
// every accessor returns a copy.
type Grammar struct {
	variables map[Symbol]struct{}
	terminals map[Symbol]struct{}
	start     Symbol
	rules     map[string]ProductionRule
}

// New assembles a grammar from a start symbol and a rule list. The vocabulary
// is derived from the rules, duplicate rules are merged, and the result is
// validated.
func New(start Symbol, rules []ProductionRule) (*Grammar, error) {
	g := &Grammar{
		variables: map[Symbol]struct{}{},
		terminals: map[Symbol]struct{}{},
		start:     start,
		rules:     map[string]ProductionRule{},
	}

	if start.IsNonterminal() {
		g.variables[start] = struct{}{}
	}

	for _, rule := range rules {
		g.addRule(rule)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Grammar) addRule(rule ProductionRule) {
	rule = ProductionRule{Head: rule.Head, Body: slices.Clone(rule.Body)}
	g.rules[rule.Key()] = rule

	if rule.Head.IsNonterminal() {
		g.variables[rule.Head] = struct{}{}
	}

	for _, symbol := range rule.Body {
		if symbol.IsNonterminal() {
			g.variables[symbol] = struct{}{}
		} else {
			g.terminals[symbol] = struct{}{}
		}
	}
}

func invariantError(format string, args ...any) *GrammarError {
	return &GrammarError{Kind: InvariantViolation, Detail: fmt.Sprintf(format, args...)}
}

// Validate checks that the start symbol and every rule head are variables,
// every body symbol is in the matching vocabulary set, classification is
// consistent and disjoint, and no two rules are identical.
func (g *Grammar) Validate() error {
	if _, ok := g.variables[g.start]; !ok || !g.start.IsNonterminal() {
		return invariantError("start symbol %q is not a variable", g.start.Text)
	}

	texts := map[string]Kind{}

	for variable := range g.variables {
		if !variable.IsNonterminal() || !IsNonterminalToken(variable.Text) {
			return invariantError("variable %q is not a nonterminal", variable.Text)
		}

		texts[variable.Text] = Nonterminal
	}

	for terminal := range g.terminals {
		if !terminal.IsTerminal() || IsNonterminalToken(terminal.Text) {
			return invariantError("terminal %q is not a terminal", terminal.Text)
		}

		if _, clash := texts[terminal.Text]; clash {
			return invariantError("%q is both a variable and a terminal", terminal.Text)
		}
	}

	for key, rule := range g.rules {
		if key != rule.Key() {
			return invariantError("rule %q is stored under the wrong key", rule)
		}

		if _, ok := g.variables[rule.Head]; !ok || !rule.Head.IsNonterminal() {
			return invariantError("head of rule %q is not a variable", rule)
		}

		for _, symbol := range rule.Body {
			if Classify(symbol.Text) != symbol {
				return invariantError("symbol %q in rule %q is misclassified", symbol.Text, rule)
			}

			set := g.terminals
			if symbol.IsNonterminal() {
				set = g.variables
			}

			if _, ok := set[symbol]; !ok {
				return invariantError("symbol %q in rule %q is missing from the vocabulary", symbol.Text, rule)
			}
		}
	}

	return nil
}

func (g *Grammar) StartSymbol() Symbol {
	return g.start
}

func sortedSymbols(set map[Symbol]struct{}) []Symbol {
	return slices.SortedFunc(maps.Keys(set), compareSymbols)
}

func (g *Grammar) Variables() []Symbol {
	return sortedSymbols(g.variables)
}

func (g *Grammar) Terminals() []Symbol {
	return sortedSymbols(g.terminals)
}

func (g *Grammar) HasVariable(s Symbol) bool {
	_, ok := g.variables[s]
	return ok
}

func (g *Grammar) HasTerminal(s Symbol) bool {
	_, ok := g.terminals[s]
	return ok
}

func (g *Grammar) HasRule(rule ProductionRule) bool {
	_, ok := g.rules[rule.Key()]
	return ok
}

func (g *Grammar) Len() int {
	return len(g.rules)
}

// Rules returns every rule, those of the start symbol first, then ordered by
// head and body.
func (g *Grammar) Rules() []ProductionRule {
	rules := make([]ProductionRule, 0, len(g.rules))

	for _, rule := range g.rules {
		rules = append(rules, ProductionRule{Head: rule.Head, Body: slices.Clone(rule.Body)})
	}

	slices.SortFunc(rules, func(a, b ProductionRule) int {
		aStart, bStart := a.Head == g.start, b.Head == g.start

		if aStart != bStart {
			if aStart {
				return -1
			}

			return 1
		}

		if c := compareSymbols(a.Head, b.Head); c != 0 {
			return c
		}

		return compareBodies(a.Body, b.Body)
	})

	return rules
}

func (g *Grammar) RulesFor(head Symbol) []ProductionRule {
	var rules []ProductionRule

	for _, rule := range g.Rules() {
		if rule.Head == head {
			rules = append(rules, rule)
		}
	}

	return rules
}

// Equal compares grammars as sets.
func (g *Grammar) Equal(other *Grammar) bool {
	if g == nil || other == nil {
		return g == other
	}

	return g.start == other.start &&
		maps.Equal(g.variables, other.variables) &&
		maps.Equal(g.terminals, other.terminals) &&
		maps.EqualFunc(g.rules, other.rules, func(a, b ProductionRule) bool {
			return a.Head == b.Head && slices.Equal(a.Body, b.Body)
		})
}

func (g *Grammar) String() string {
	return Render(g)
}

package bnf

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Pass is a language-preserving rewrite. A pass never modifies its input; it
// returns either the same grammar or a new one.
type Pass func(*Grammar) (*Grammar, error)

// Pipeline runs passes in order, validating each intermediate grammar.
func Pipeline(passes ...Pass) Pass {
	return func(g *Grammar) (*Grammar, error) {
		for i, pass := range passes {
			next, err := pass(g)

			if err != nil {
				return nil, fmt.Errorf("pass %d: %w", i+1, err)
			}

			if err := next.Validate(); err != nil {
				return nil, fmt.Errorf("pass %d: %w", i+1, err)
			}

			g = next
		}

		return g, nil
	}
}

func freshVariable(name string) Symbol {
	return NewNonterminal("<" + name + ">")
}

func collision(s Symbol) *GrammarError {
	return &GrammarError{Kind: NameCollision, Symbol: s.Text}
}

func (g *Grammar) appearsInBody(s Symbol) bool {
	for _, rule := range g.rules {
		if slices.Contains(rule.Body, s) {
			return true
		}
	}

	return false
}

// EliminateStart introduces <S'> ::= <S> when the start symbol <S> occurs on
// some right-hand side, making <S'> the new start symbol. Running it again is
// a no-op.
func EliminateStart(g *Grammar) (*Grammar, error) {
	if !g.appearsInBody(g.start) {
		return g, nil
	}

	fresh := freshVariable(g.start.Name() + "'")

	if g.HasVariable(fresh) {
		return nil, collision(fresh)
	}

	return New(fresh, append(g.Rules(), NewRule(fresh, g.start)))
}

var ChomskyNormalForm = Pipeline(EliminateStart, SeparateTerminals, Binarize, RemoveEpsilon, RemoveUnit)

var passRegistry = map[string]Pass{
	"start": EliminateStart,
	"term":  SeparateTerminals,
	"bin":   Binarize,
	"del":   RemoveEpsilon,
	"unit":  RemoveUnit,
	"cnf":   func(g *Grammar) (*Grammar, error) { return ChomskyNormalForm(g) },
}

func PassNames() []string {
	return slices.Sorted(maps.Keys(passRegistry))
}

func PassByName(name string) (Pass, error) {
	pass, ok := passRegistry[strings.ToLower(strings.TrimSpace(name))]

	if !ok {
		return nil, fmt.Errorf("unknown pass %q (expected one of %s)", name, strings.Join(PassNames(), ", "))
	}

	return pass, nil
}

// PipelineOf resolves pass names into a single pipeline.
func PipelineOf(names ...string) (Pass, error) {
	resolved := make([]Pass, 0, len(names))

	for _, name := range names {
		pass, err := PassByName(name)

		if err != nil {
			return nil, err
		}

		resolved = append(resolved, pass)
	}

	return Pipeline(resolved...), nil
}

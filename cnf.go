package bnf

import "fmt"

// SeparateTerminals replaces every terminal t inside a body of two or more
// symbols with a new variable <T_t> and adds <T_t> ::= t.
func SeparateTerminals(g *Grammar) (*Grammar, error) {
	proxies := map[Symbol]Symbol{}

	var rules []ProductionRule

	for _, rule := range g.Rules() {
		if len(rule.Body) < 2 {
			rules = append(rules, rule)
			continue
		}

		body := make([]Symbol, len(rule.Body))

		for i, symbol := range rule.Body {
			if symbol.IsNonterminal() {
				body[i] = symbol
				continue
			}

			proxy, ok := proxies[symbol]

			if !ok {
				proxy = freshVariable("T_" + symbol.Text)

				if g.HasVariable(proxy) {
					return nil, collision(proxy)
				}

				proxies[symbol] = proxy
				rules = append(rules, NewRule(proxy, symbol))
			}

			body[i] = proxy
		}

		rules = append(rules, NewRule(rule.Head, body...))
	}

	return New(g.start, rules)
}

// Binarize splits bodies longer than two symbols into a chain:
// <A> ::= X1 X2 X3 becomes <A> ::= X1 <A_1> and <A_1> ::= X2 X3.
func Binarize(g *Grammar) (*Grammar, error) {
	counters := map[Symbol]int{}

	var rules []ProductionRule

	for _, rule := range g.Rules() {
		head, body := rule.Head, rule.Body

		for len(body) > 2 {
			counters[rule.Head]++
			next := freshVariable(fmt.Sprintf("%s_%d", rule.Head.Name(), counters[rule.Head]))

			if g.HasVariable(next) {
				return nil, collision(next)
			}

			rules = append(rules, NewRule(head, body[0], next))
			head, body = next, body[1:]
		}

		rules = append(rules, NewRule(head, body...))
	}

	return New(g.start, rules)
}

func nullableSet(rules []ProductionRule) map[Symbol]bool {
	nullable := map[Symbol]bool{}

	for changed := true; changed; {
		changed = false

		for _, rule := range rules {
			if nullable[rule.Head] {
				continue
			}

			allNullable := true

			for _, symbol := range rule.Body {
				if !nullable[symbol] {
					allNullable = false
					break
				}
			}

			if allNullable {
				nullable[rule.Head] = true
				changed = true
			}
		}
	}

	return nullable
}

// epsilonRewrites returns every body obtainable by dropping any subset of the
// nullable occurrences in body.
func epsilonRewrites(body []Symbol, nullable map[Symbol]bool) [][]Symbol {
	var positions []int

	for i, symbol := range body {
		if nullable[symbol] {
			positions = append(positions, i)
		}
	}

	rewrites := make([][]Symbol, 0, 1<<len(positions))

	for mask := 0; mask < 1<<len(positions); mask++ {
		dropped := map[int]bool{}

		for bit, pos := range positions {
			if (mask>>bit)&1 == 1 {
				dropped[pos] = true
			}
		}

		rewrite := []Symbol{}

		for i, symbol := range body {
			if !dropped[i] {
				rewrite = append(rewrite, symbol)
			}
		}

		rewrites = append(rewrites, rewrite)
	}

	return rewrites
}

// RemoveEpsilon removes empty bodies. Every occurrence of a nullable variable
// is made optional instead; only the start symbol may keep an empty body.
func RemoveEpsilon(g *Grammar) (*Grammar, error) {
	source := g.Rules()
	nullable := nullableSet(source)

	var rules []ProductionRule

	for _, rule := range source {
		for _, body := range epsilonRewrites(rule.Body, nullable) {
			if len(body) == 0 && rule.Head != g.start {
				continue
			}

			if len(body) == 1 && body[0] == rule.Head {
				continue
			}

			rules = append(rules, NewRule(rule.Head, body...))
		}
	}

	return New(g.start, rules)
}

// RemoveUnit replaces every rule <A> ::= <B> with <A> ::= w for each non-unit
// rule <B> ::= w, following chains of unit rules.
func RemoveUnit(g *Grammar) (*Grammar, error) {
	units := map[Symbol][]Symbol{}
	bodies := map[Symbol][][]Symbol{}

	for _, rule := range g.Rules() {
		if rule.IsUnit() {
			units[rule.Head] = append(units[rule.Head], rule.Body[0])
		} else {
			bodies[rule.Head] = append(bodies[rule.Head], rule.Body)
		}
	}

	var rules []ProductionRule

	for _, variable := range g.Variables() {
		reached := map[Symbol]bool{variable: true}
		queue := []Symbol{variable}

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			for _, body := range bodies[current] {
				rules = append(rules, NewRule(variable, body...))
			}

			for _, target := range units[current] {
				if !reached[target] {
					reached[target] = true
					queue = append(queue, target)
				}
			}
		}
	}

	return New(g.start, rules)
}

// IsChomskyNormalForm reports whether every rule is <A> ::= <B> <C> with
// neither <B> nor <C> the start symbol, <A> ::= a, or <S> ::= ε for the start
// symbol <S>.
func IsChomskyNormalForm(g *Grammar) bool {
	for _, rule := range g.rules {
		switch len(rule.Body) {
		case 0:
			if rule.Head != g.start {
				return false
			}
		case 1:
			if !rule.Body[0].IsTerminal() {
				return false
			}
		case 2:
			for _, symbol := range rule.Body {
				if !symbol.IsNonterminal() || symbol == g.start {
					return false
				}
			}
		default:
			return false
		}
	}

	return true
}

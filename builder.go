package bnf

import (
	"fmt"
	"strings"

	"github.com/l-donovan/bnf/common"
	"github.com/l-donovan/bnf/lexer"
)

const separator = "::="

type Options struct {
	// AllowEpsilon accepts empty alternatives as rules with an empty body
	// instead of rejecting them.
	AllowEpsilon bool
}

var bodyLexer = lexer.New(lexer.BodyDefinitions)

// Build parses BNF source text, one rule per line:
//
//	<head> ::= alt1 | alt2 | ...
//
// Blank lines and lines starting with '#' are skipped. The head of the first
// rule becomes the start symbol. Nothing is returned unless every line is valid.
func Build(source string) (*Grammar, error) {
	return BuildWithOptions(source, Options{})
}

func BuildWithOptions(source string, opts Options) (*Grammar, error) {
	b := builder{source: source, opts: opts}

	for _, line := range common.Lines(source) {
		if err := b.addLine(line); err != nil {
			return nil, err
		}
	}

	if !b.seenStart {
		return nil, &GrammarError{Kind: EmptyGrammar, Contents: source}
	}

	return New(b.start, b.rules)
}

type builder struct {
	source    string
	opts      Options
	seenStart bool
	start     Symbol
	rules     []ProductionRule
}

func (b *builder) addLine(raw common.Line) error {
	line := raw.Trimmed()

	if line.Val() == "" || strings.HasPrefix(line.Val(), "#") {
		return nil
	}

	switch strings.Count(line.Val(), separator) {
	case 0:
		return lineError(MissingSeparator, line, b.source)
	case 1:
	default:
		return lineError(MultipleSeparators, line, b.source)
	}

	lhs, rhs, _ := line.SplitOn(separator)
	head, err := b.parseHead(line, lhs)

	if err != nil {
		return err
	}

	tokens, err := bodyLexer.Lex(rhs.Val())

	if err != nil {
		return fmt.Errorf("line %d: %w", line.Loc.Line+1, err)
	}

	for _, alternative := range lexer.Split(tokens, lexer.Pipe) {
		if len(alternative) == 0 && !b.opts.AllowEpsilon {
			return lineError(EmptyAlternative, line, b.source)
		}

		body := make([]Symbol, len(alternative))

		for i, token := range alternative {
			body[i] = Classify(token.Contents)
		}

		b.rules = append(b.rules, NewRule(head, body...))
	}

	if !b.seenStart {
		b.start = head
		b.seenStart = true
	}

	return nil
}

func (b *builder) parseHead(line, lhs common.Line) (Symbol, error) {
	fields := strings.Fields(lhs.Val())

	if len(fields) != 1 {
		err := lineError(InvalidHead, line, b.source)
		err.Detail = fmt.Sprintf("expected one token, found %d", len(fields))
		return Symbol{}, err
	}

	if !IsNonterminalToken(fields[0]) {
		err := lineError(InvalidHead, line, b.source)
		err.Detail = fmt.Sprintf("%s is not wrapped in <...>", fields[0])
		return Symbol{}, err
	}

	return Classify(fields[0]), nil
}

package bnf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/l-donovan/bnf/common"
)

type ErrorKind int

const (
	MissingSeparator ErrorKind = iota
	MultipleSeparators
	InvalidHead
	EmptyAlternative
	EmptyGrammar
	NameCollision
	InvariantViolation
)

var (
	ErrMissingSeparator   = errors.New("missing ::= separator")
	ErrMultipleSeparators = errors.New("more than one ::= separator")
	ErrInvalidHead        = errors.New("rule head is not a nonterminal")
	ErrEmptyAlternative   = errors.New("empty alternative")
	ErrEmptyGrammar       = errors.New("grammar has no rules")
	ErrNameCollision      = errors.New("name collision")
	ErrInvariant          = errors.New("invariant violated")
)

var kindErrors = map[ErrorKind]error{
	MissingSeparator:   ErrMissingSeparator,
	MultipleSeparators: ErrMultipleSeparators,
	InvalidHead:        ErrInvalidHead,
	EmptyAlternative:   ErrEmptyAlternative,
	EmptyGrammar:       ErrEmptyGrammar,
	NameCollision:      ErrNameCollision,
	InvariantViolation: ErrInvariant,
}

func (k ErrorKind) String() string {
	return kindErrors[k].Error()
}

// GrammarError is returned by every failing build or pass. Line errors carry
// the offending line and its location; NameCollision carries the symbol.
type GrammarError struct {
	Kind     ErrorKind
	Line     string
	Loc      common.StringPos
	Symbol   string
	Detail   string
	Contents string
}

func lineError(kind ErrorKind, line common.Line, contents string) *GrammarError {
	return &GrammarError{Kind: kind, Line: line.Val(), Loc: line.Loc, Contents: contents}
}

func (e *GrammarError) Error() string {
	switch e.Kind {
	case NameCollision:
		return fmt.Sprintf("%s: %s already exists", e.Kind, e.Symbol)
	case InvariantViolation:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case EmptyGrammar:
		return e.Kind.String()
	}

	if e.Detail != "" {
		return fmt.Sprintf("line %d: %s (%s): %q", e.Loc.Line+1, e.Kind, e.Detail, e.Line)
	}

	return fmt.Sprintf("line %d: %s: %q", e.Loc.Line+1, e.Kind, e.Line)
}

func (e *GrammarError) Unwrap() error {
	return kindErrors[e.Kind]
}

func digitCount(input int) int {
	if input == 0 {
		return 1
	}

	count := 0

	for input != 0 {
		input /= 10
		count++
	}

	return count
}

var (
	gutterStyle    = lipgloss.NewStyle().Faint(true)
	highlightStyle = lipgloss.NewStyle().Reverse(true)
	markerStyle    = lipgloss.NewStyle().Bold(true)
)

// PrintContext writes the lines around a line error with the failing line
// highlighted. Errors without source text print nothing.
func (e *GrammarError) PrintContext(w io.Writer, contextLineCount int) error {
	if e.Contents == "" {
		return nil
	}

	lines := strings.Split(e.Contents, "\n")
	startLineNum := max(0, e.Loc.Line-contextLineCount)
	endLineNum := min(e.Loc.Line+contextLineCount+1, len(lines))
	maxLineNumWidth := digitCount(endLineNum + 1)

	var b strings.Builder

	b.WriteString("Context:\n")

	for i := startLineNum; i < endLineNum; i++ {
		text := strings.TrimSuffix(lines[i], "\r")
		gutter := gutterStyle.Render(fmt.Sprintf("%*d │", maxLineNumWidth, i+1))

		if i != e.Loc.Line {
			fmt.Fprintf(&b, "%s %s\n", gutter, text)
			continue
		}

		// Tabs are kept so the marker lines up with wide characters.
		col := min(e.Loc.Col, len(text))
		tabCount := strings.Count(text[:col], "\t")
		left := strings.Repeat("\t", tabCount) + strings.Repeat(" ", col-tabCount)

		fmt.Fprintf(&b, "%s %s%s\n", gutter, text[:col], highlightStyle.Render(text[col:]))
		fmt.Fprintf(&b, "%*s │ %s%s\n", maxLineNumWidth, "", left, markerStyle.Render("╰─── "+e.Kind.String()))
	}

	_, err := io.WriteString(w, b.String())

	return err
}

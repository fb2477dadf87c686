package bnf

import "strings"

type Kind int

const (
	Terminal Kind = iota
	Nonterminal
)

func (k Kind) String() string {
	if k == Nonterminal {
		return "Nonterminal"
	}

	return "Terminal"
}

// Symbol is comparable, so it can key maps directly.
type Symbol struct {
	Kind Kind
	Text string
}

func NewTerminal(text string) Symbol {
	return Symbol{Terminal, text}
}

func NewNonterminal(text string) Symbol {
	return Symbol{Nonterminal, text}
}

// Classify decides a token's kind purely from its spelling: anything wrapped
// in angle brackets is a nonterminal, everything else is a terminal.
func Classify(token string) Symbol {
	if IsNonterminalToken(token) {
		return NewNonterminal(token)
	}

	return NewTerminal(token)
}

func IsNonterminalToken(token string) bool {
	return len(token) >= 2 && strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">")
}

func (s Symbol) IsTerminal() bool {
	return s.Kind == Terminal
}

func (s Symbol) IsNonterminal() bool {
	return s.Kind == Nonterminal
}

// Name is the text between the brackets of a nonterminal, or the text itself
// for a terminal.
func (s Symbol) Name() string {
	if s.IsNonterminal() {
		return s.Text[1 : len(s.Text)-1]
	}

	return s.Text
}

func (s Symbol) String() string {
	return s.Text
}

func compareSymbols(a, b Symbol) int {
	if c := strings.Compare(a.Text, b.Text); c != 0 {
		return c
	}

	return int(a.Kind) - int(b.Kind)
}

package bnf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		token string
		kind  Kind
	}{
		{"<expr>", Nonterminal},
		{"<S'>", Nonterminal},
		{"<>", Nonterminal},
		{"played", Terminal},
		{"+", Terminal},
		{"", Terminal},
		{"<", Terminal},
		{">", Terminal},
		{"<expr", Terminal},
		{"expr>", Terminal},
		{"a<b>", Terminal},
	}

	for _, tc := range cases {
		t.Run("Should classify "+tc.token, func(t *testing.T) {
			symbol := Classify(tc.token)

			assert.Equal(t, tc.kind, symbol.Kind)
			assert.Equal(t, tc.token, symbol.Text)
		})
	}

	t.Run("Should agree with the bracket convention for every token", func(t *testing.T) {
		tokens := []string{"", "<", ">", "<>", "<<>>", "a", "<a", "a>", "<a>", "<a b>", "x<y>z"}

		for _, token := range tokens {
			bracketed := len(token) >= 2 && strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">")
			assert.Equal(t, bracketed, Classify(token).IsNonterminal(), token)
			assert.NotEqual(t, Classify(token).IsNonterminal(), Classify(token).IsTerminal(), token)
		}
	})
}

func TestSymbol(t *testing.T) {
	t.Run("Should compare by kind and text", func(t *testing.T) {
		assert.Equal(t, NewNonterminal("<A>"), Classify("<A>"))
		assert.NotEqual(t, NewTerminal("<A>"), NewNonterminal("<A>"))
	})

	t.Run("Should strip brackets for name", func(t *testing.T) {
		assert.Equal(t, "expr", NewNonterminal("<expr>").Name())
		assert.Equal(t, "", NewNonterminal("<>").Name())
		assert.Equal(t, "a", NewTerminal("a").Name())
	})

	t.Run("Should print kind", func(t *testing.T) {
		assert.Equal(t, "Terminal", Terminal.String())
		assert.Equal(t, "Nonterminal", Nonterminal.String())
	})
}

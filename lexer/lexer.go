package lexer

import (
	"fmt"
	"regexp"
)

type TokenDefinition struct {
	Name    string
	Pattern *regexp.Regexp
}

type LexerToken struct {
	Name     string
	Contents string
	Offset   int
}

func (t LexerToken) IsOfType(names ...string) bool {
	for _, name := range names {
		if t.Name == name {
			return true
		}
	}

	return false
}

const (
	Pipe        = "Pipe"
	Symbol      = "Symbol"
	Whitespace  = "Whitespace"
	LineComment = "LineComment"
)

// BodyDefinitions recognize the right-hand side of a rule: symbols separated
// by whitespace, with alternatives separated by pipes.
var BodyDefinitions = []TokenDefinition{
	{Name: Pipe, Pattern: regexp.MustCompile(`^\|`)},
	{Name: Whitespace, Pattern: regexp.MustCompile(`^[\t\f\v\r ]+`)},
	{Name: Symbol, Pattern: regexp.MustCompile(`^[^\s|]+`)},
}

type Lexer struct {
	TokenDefinitions []TokenDefinition
}

func New(defs []TokenDefinition) Lexer {
	return Lexer{TokenDefinitions: defs}
}

// Lex splits text into tokens. Definitions are tried in order and the first
// non-empty match wins. Whitespace and comments are dropped.
func (l Lexer) Lex(text string) ([]LexerToken, error) {
	tokens := []LexerToken{}
	offset := 0

	for offset < len(text) {
		found := false
		rest := text[offset:]

		for _, tokenDefinition := range l.TokenDefinitions {
			match := tokenDefinition.Pattern.FindStringIndex(rest)

			if match == nil || match[1] == 0 {
				continue
			}

			found = true
			token := LexerToken{Name: tokenDefinition.Name, Contents: rest[:match[1]], Offset: offset}
			offset += match[1]

			if !token.IsOfType(Whitespace, LineComment) {
				tokens = append(tokens, token)
			}

			break
		}

		if !found {
			return tokens, fmt.Errorf("could not find token matching %q at offset %d", rest, offset)
		}
	}

	return tokens, nil
}

// Split groups tokens into runs separated by tokens of the given type. A text
// with n separators always yields n+1 groups, some of which may be empty.
func Split(tokens []LexerToken, separator string) [][]LexerToken {
	groups := [][]LexerToken{{}}

	for _, token := range tokens {
		if token.IsOfType(separator) {
			groups = append(groups, []LexerToken{})
			continue
		}

		groups[len(groups)-1] = append(groups[len(groups)-1], token)
	}

	return groups
}

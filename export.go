package bnf

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// Document is the structured form of a grammar used for JSON and YAML.
type Document struct {
	Start     string         `json:"start"     yaml:"start"`
	Variables []string       `json:"variables" yaml:"variables"`
	Terminals []string       `json:"terminals" yaml:"terminals"`
	Rules     []DocumentRule `json:"rules"     yaml:"rules"`
}

type DocumentRule struct {
	Head string   `json:"head" yaml:"head"`
	Body []string `json:"body" yaml:"body,flow"`
}

func texts(symbols []Symbol) []string {
	out := make([]string, len(symbols))

	for i, symbol := range symbols {
		out[i] = symbol.Text
	}

	return out
}

func NewDocument(g *Grammar) Document {
	doc := Document{
		Start:     g.StartSymbol().Text,
		Variables: texts(g.Variables()),
		Terminals: texts(g.Terminals()),
	}

	for _, rule := range g.Rules() {
		doc.Rules = append(doc.Rules, DocumentRule{Head: rule.Head.Text, Body: texts(rule.Body)})
	}

	return doc
}

// Grammar rebuilds a grammar from the document. Symbols are classified from
// their text; the variable and terminal lists must agree with the rules.
func (d Document) Grammar() (*Grammar, error) {
	rules := make([]ProductionRule, len(d.Rules))

	for i, rule := range d.Rules {
		body := make([]Symbol, len(rule.Body))

		for j, token := range rule.Body {
			body[j] = Classify(token)
		}

		rules[i] = NewRule(Classify(rule.Head), body...)
	}

	g, err := New(Classify(d.Start), rules)

	if err != nil {
		return nil, err
	}

	if err := checkListed("variable", d.Variables, g.HasVariable); err != nil {
		return nil, err
	}

	if err := checkListed("terminal", d.Terminals, g.HasTerminal); err != nil {
		return nil, err
	}

	return g, nil
}

func checkListed(what string, listed []string, has func(Symbol) bool) error {
	for _, text := range listed {
		if !has(Classify(text)) {
			return invariantError("listed %s %q does not occur in any rule", what, text)
		}
	}

	return nil
}

// MarshalJSON encodes the grammar document. Angle brackets are written as is
// rather than HTML-escaped.
func MarshalJSON(g *Grammar, prettyPrint bool) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(NewDocument(g)); err != nil {
		return nil, fmt.Errorf("failed to marshal grammar: %w", err)
	}

	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if prettyPrint {
		data = pretty.Pretty(data)
	}

	return data, nil
}

func UnmarshalJSON(data []byte) (*Grammar, error) {
	var doc Document

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse grammar document: %w", err)
	}

	return doc.Grammar()
}

func MarshalYAML(g *Grammar) ([]byte, error) {
	data, err := yaml.Marshal(NewDocument(g))

	if err != nil {
		return nil, fmt.Errorf("failed to marshal grammar: %w", err)
	}

	return data, nil
}

func UnmarshalYAML(data []byte) (*Grammar, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse grammar document: %w", err)
	}

	return doc.Grammar()
}

package bnf

import (
	"fmt"
	"strings"

	"github.com/l-donovan/bnf/common"
)

// Render writes the grammar's vocabulary, start symbol and rules. Everything
// but the rules is written as comments, so the output can be passed back to
// Build.
func Render(g *Grammar) string {
	return RenderWith(g, common.DefaultSerializerConfig())
}

// RenderWith renders using the given serializer settings. A minified grammar
// contains only its rules.
func RenderWith(g *Grammar, config common.SerializerConfig) string {
	var b strings.Builder

	if !config.Minify {
		writeBlock(&b, "Variables", g.Variables(), config)
		writeBlock(&b, "Terminals", g.Terminals(), config)
		fmt.Fprintf(&b, "# Start Symbol = %s\n", g.StartSymbol())
		b.WriteString("# Production Rules =\n")
	}

	for _, rule := range g.Rules() {
		b.WriteString(rule.String())
		b.WriteString("\n")
	}

	return b.String()
}

func writeBlock(b *strings.Builder, title string, symbols []Symbol, config common.SerializerConfig) {
	fmt.Fprintf(b, "# %s =\n", title)

	for _, symbol := range symbols {
		fmt.Fprintf(b, "#%s%s\n", config.Indent(1), symbol)
	}
}

// RenderCompact writes one line per head, alternatives joined with pipes.
func RenderCompact(g *Grammar) string {
	var b strings.Builder
	var heads []Symbol

	alternatives := map[Symbol][]string{}

	for _, rule := range g.Rules() {
		if _, seen := alternatives[rule.Head]; !seen {
			heads = append(heads, rule.Head)
		}

		body := strings.TrimSpace(strings.TrimPrefix(rule.String(), rule.Head.Text+" "+separator))
		alternatives[rule.Head] = append(alternatives[rule.Head], body)
	}

	for _, head := range heads {
		fmt.Fprintf(&b, "%s %s", head, separator)

		for i, body := range alternatives[head] {
			if i > 0 {
				b.WriteString(" |")
			}

			if body != "" {
				b.WriteString(" " + body)
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}

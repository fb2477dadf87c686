package bnf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	t.Run("Should mirror the canonical ordering", func(t *testing.T) {
		g, err := Build(scenarioB)
		require.NoError(t, err)

		doc := NewDocument(g)

		assert.Equal(t, "<S>", doc.Start)
		assert.Equal(t, []string{"<S>", "<X>", "<Y>"}, doc.Variables)
		assert.Equal(t, []string{"a", "b", "bb", "c"}, doc.Terminals)
		require.Len(t, doc.Rules, 5)
		assert.Equal(t, DocumentRule{Head: "<S>", Body: []string{"<X>", "<Y>"}}, doc.Rules[0])
	})
}

func TestMarshalJSON(t *testing.T) {
	t.Run("Should round trip through JSON", func(t *testing.T) {
		g, err := Build(arithmetic)
		require.NoError(t, err)

		data, err := MarshalJSON(g, true)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n")

		rebuilt, err := UnmarshalJSON(data)

		require.NoError(t, err)
		assert.True(t, g.Equal(rebuilt))
	})

	t.Run("Should encode empty bodies as empty arrays", func(t *testing.T) {
		g := mustBuild(t, "<S> ::= a |")

		data, err := MarshalJSON(g, false)
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		rules := raw["rules"].([]any)
		assert.Equal(t, []any{}, rules[0].(map[string]any)["body"])
	})

	t.Run("Should write angle brackets unescaped", func(t *testing.T) {
		data, err := MarshalJSON(mustBuild(t, "<S> ::= a"), false)

		require.NoError(t, err)
		assert.Contains(t, string(data), `"start":"<S>"`)
		assert.NotContains(t, string(data), `\u003c`)
	})

	t.Run("Should reject documents listing unknown symbols", func(t *testing.T) {
		_, err := UnmarshalJSON([]byte(`{"start":"<S>","variables":["<S>","<Q>"],"terminals":["a"],"rules":[{"head":"<S>","body":["a"]}]}`))

		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("Should reject malformed JSON", func(t *testing.T) {
		_, err := UnmarshalJSON([]byte(`{"start":`))

		assert.Error(t, err)
	})
}

func TestMarshalYAML(t *testing.T) {
	t.Run("Should round trip through YAML", func(t *testing.T) {
		g, err := ChomskyNormalForm(mustBuild(t, "<S> ::= a <S> * | /"))
		require.NoError(t, err)

		data, err := MarshalYAML(g)
		require.NoError(t, err)

		rebuilt, err := UnmarshalYAML(data)

		require.NoError(t, err)
		assert.True(t, g.Equal(rebuilt))
	})

	t.Run("Should reject a terminal rule head", func(t *testing.T) {
		_, err := UnmarshalYAML([]byte("start: <S>\nrules:\n  - head: S\n    body: [a]\n"))

		assert.ErrorIs(t, err, ErrInvariant)
	})
}

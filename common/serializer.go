package common

import "strings"

type SerializerConfig struct {
	UseTabs    bool
	IndentSize int
	Minify     bool
}

func DefaultSerializerConfig() SerializerConfig {
	return SerializerConfig{UseTabs: true, IndentSize: 1}
}

func (c SerializerConfig) Indent(indentLevel int) string {
	if c.Minify {
		return ""
	}

	if c.UseTabs {
		return strings.Repeat("\t", c.IndentSize*indentLevel)
	}

	return strings.Repeat(" ", c.IndentSize*indentLevel)
}

func (c SerializerConfig) Sep(separator string, alt string) string {
	if c.Minify {
		return alt
	}

	return separator
}

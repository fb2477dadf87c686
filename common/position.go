package common

import (
	"fmt"
	"strings"
)

type StringPos struct {
	Pos, Line, Col int
}

func (s StringPos) String() string {
	return fmt.Sprintf("%d:%d", s.Line+1, s.Col+1)
}

// Line is a single line of source text along with where it starts.
type Line struct {
	contents string
	Loc      StringPos
}

func NewLine(contents string, loc StringPos) Line {
	return Line{contents, loc}
}

// Lines splits contents on newlines, dropping a trailing carriage return from
// each line. Offsets in Loc refer to the original contents.
func Lines(contents string) []Line {
	var lines []Line

	pos := 0

	for lineNum := 0; pos <= len(contents); lineNum++ {
		end := strings.IndexByte(contents[pos:], '\n')

		if end < 0 {
			end = len(contents) - pos
		}

		text := strings.TrimSuffix(contents[pos:pos+end], "\r")
		lines = append(lines, Line{text, StringPos{pos, lineNum, 0}})
		pos += end + 1
	}

	return lines
}

func (l Line) getPos(start int) StringPos {
	return StringPos{l.Loc.Pos + start, l.Loc.Line, l.Loc.Col + start}
}

func (l Line) FromPosRange(start, stop int) Line {
	return Line{l.contents[start:stop], l.getPos(start)}
}

// Trimmed drops leading and trailing whitespace, keeping Loc pointed at the
// first remaining character.
func (l Line) Trimmed() Line {
	start := len(l.contents) - len(strings.TrimLeft(l.contents, " \t\f\v\r"))
	stop := len(strings.TrimRight(l.contents, " \t\f\v\r"))

	if start >= stop {
		return Line{"", l.getPos(start)}
	}

	return l.FromPosRange(start, stop)
}

// SplitOn cuts the line around the first occurrence of sep.
func (l Line) SplitOn(sep string) (Line, Line, bool) {
	idx := strings.Index(l.contents, sep)

	if idx < 0 {
		return l, Line{}, false
	}

	return l.FromPosRange(0, idx), l.FromPosRange(idx+len(sep), len(l.contents)), true
}

func (l Line) Val() string {
	return l.contents
}

func (l Line) String() string {
	if strings.Contains(l.contents, "\"") {
		return fmt.Sprintf("'%s' %s", l.contents, l.Loc)
	} else {
		return fmt.Sprintf("%#v %s", l.contents, l.Loc)
	}
}

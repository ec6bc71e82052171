// SPDX-License-Identifier: MIT
package lexer

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

type (
	// Position is a human oriented location within some text.
	Position struct {
		Offset int // In runes.
		Line   int // 1-based.
		Column int // 1-based, in runes.
	}

	// LineIndex caches the line starts of a text for repeated Position lookups.
	LineIndex struct {
		// starts holds the offset (in runes) of the first rune of every line.
		starts []int
		length int
	}
)

// String is the `fmt.Stringer` implementation for Position.
func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// NewLineIndex indexes the line starts of text.
//
// "\n", "\r\n", a lone "\r", U+2028 & U+2029 terminate lines.
func NewLineIndex(text string) *LineIndex {
	li := &LineIndex{starts: []int{0}}

	src := []rune(text)
	for index := 0; index < len(src); index++ {
		switch src[index] {
		case '\r':
			if index+1 < len(src) && src[index+1] == '\n' {
				index++
			}
			li.starts = append(li.starts, index+1)
		case '\n', '\u2028', '\u2029':
			li.starts = append(li.starts, index+1)
		}
	}
	li.length = len(src)

	return li
}

// Lines retrieves the number of lines.
func (li *LineIndex) Lines() int { return len(li.starts) }

// Position converts an offset (in runes) into a Position.
//
// Offsets outside the text are clamped to it.
func (li *LineIndex) Position(offset int) (p Position) {
	p.Offset = clamp(offset, 0, li.length)

	line, found := slices.BinarySearch(li.starts, p.Offset)
	if !found {
		line--
	}
	p.Line = line + 1
	p.Column = p.Offset - li.starts[line] + 1

	return
}

// Locate converts an offset (in runes) within text into a Position.
func Locate(text string, offset int) Position { return NewLineIndex(text).Position(offset) }

func clamp[T constraints.Integer](v, lower, upper T) T {
	switch {
	case v < lower:
		return lower
	case v > upper:
		return upper
	default:
		return v
	}
}

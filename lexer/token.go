// SPDX-License-Identifier: MIT
package lexer

import (
	"fmt"
	"unicode/utf8"

	"gitlab.com/fisherprime/lexscan/rules"
)

type (
	// Token holds a classified lexeme.
	Token struct {
		Kind   rules.Kind `json:"kind"`
		Lexeme string     `json:"lexeme"`
		Offset int        `json:"offset"` // The starting position, (in runes) of this Token
	}

	// Match holds the highest priority rule matching at some offset.
	Match struct {
		Rule   rules.Rule
		Lexeme string
		Index  int // The rule's priority index
		Offset int
	}
)

// String is the `fmt.Stringer` implementation for Token.
func (t Token) String() string { return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Offset) }

// End obtains the offset immediately after the lexeme.
func (t Token) End() int { return t.Offset + utf8.RuneCountInString(t.Lexeme) }

// Token converts the Match into a Token.
func (m Match) Token() Token { return Token{Kind: m.Rule.Kind, Lexeme: m.Lexeme, Offset: m.Offset} }

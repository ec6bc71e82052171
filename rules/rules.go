// SPDX-License-Identifier: MIT

// Package rules declares the ordered lexical rule table consumed by the lexer.
//
// Rule order is significant: at any offset the first rule whose pattern matches wins,
// regardless of whether a later rule would match a longer lexeme.
package rules

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

type (
	// Rule defines a lexical category & the pattern recognizing it.
	//
	// Patterns use the ECMAScript dialect of github.com/dlclark/regexp2 & must not contain
	// capturing groups.
	Rule struct {
		Kind    Kind
		Pattern string
		// Ignore marks rules whose matches are consumed but never emitted.
		Ignore bool
	}

	// Table is an immutable, ordered list of Rules.
	//
	// Synchronization is unnecessary, a Table is never modified after construction.
	Table struct {
		rules []Rule
	}
)

// Rule table errors.
var (
	ErrConfiguration = errors.New("invalid rule configuration")

	ErrEmptyTable        = errors.New("empty rule table")
	ErrMissingCatchAll   = errors.New("last rule is not a catch-all")
	ErrMisplacedCatchAll = errors.New("catch-all rule before the last position")
	ErrIgnoredCatchAll   = errors.New("catch-all rule is ignored")
	ErrEmptyPattern      = errors.New("empty pattern")
	ErrUnknownKind       = errors.New("unknown kind")
)

const (
	asciiWord = `[A-Za-z0-9_]`

	// WordBoundary is `\b` restricted to ASCII word characters; the engine's own `\b` treats
	// every Unicode letter & digit as a word character.
	WordBoundary = `(?:(?<=` + asciiWord + `)(?!` + asciiWord + `)|(?<!` + asciiWord + `)(?=` + asciiWord + `))`
)

// Patterns of the default Table.
const (
	IdentifierPattern         = WordBoundary + `[a-zA-Z_$][a-zA-Z0-9_$]*` + WordBoundary
	IntegerPattern            = WordBoundary + `-?(?:0|[1-9][0-9]*)` + WordBoundary
	FloatPattern              = WordBoundary + `-?(?:0|[1-9][0-9]*)\.[0-9]+` + WordBoundary
	SingleQuotedStringPattern = `'(?:[^'\\]|\\[\s\S])*'`
	DoubleQuotedStringPattern = `"(?:[^"\\]|\\[\s\S])*"`
	TemplateStringPattern     = "`" + `(?:[^` + "`" + `\\]|\\[\s\S])*` + "`"
	BooleanPattern            = WordBoundary + `(?:true|false)` + WordBoundary
	OperatorPattern           = `[+\-*=<>]|/(?![/*])|<=|>=|!=|!==|==|===|&&|\|\||!`
	SeparatorPattern          = `[,.;:(){}\[\]]`
	WhitespacePattern         = `[\t\n\v\f\r \u00a0\u1680\u2000-\u200a\u2028\u2029\u202f\u205f\u3000\ufeff]+`
	SingleLineCommentPattern  = `//[^\n\r\u2028\u2029]*`
	MultiLineCommentPattern   = `/\*[\s\S]*?\*/`
	CatchAllPattern           = `[\s\S]`
)

var (
	defTable = &Table{rules: []Rule{
		{Kind: Identifier, Pattern: IdentifierPattern},
		{Kind: Integer, Pattern: IntegerPattern},
		{Kind: Float, Pattern: FloatPattern},
		{Kind: SingleQuotedString, Pattern: SingleQuotedStringPattern},
		{Kind: DoubleQuotedString, Pattern: DoubleQuotedStringPattern},
		{Kind: TemplateString, Pattern: TemplateStringPattern},
		{Kind: Boolean, Pattern: BooleanPattern},
		{Kind: Operator, Pattern: OperatorPattern},
		{Kind: Separator, Pattern: SeparatorPattern},
		{Kind: Whitespace, Pattern: WhitespacePattern, Ignore: true},
		{Kind: SingleLineComment, Pattern: SingleLineCommentPattern},
		{Kind: MultiLineComment, Pattern: MultiLineCommentPattern},
		{Kind: Invalid, Pattern: CatchAllPattern},
	}}

	keywords = []string{
		"void",
		"null",
		"undefined",
		"if",
		"else",
		"for",
		"while",
		"break",
		"continue",
		"return",
	}
)

// Default obtains the package's shared Table.
func Default() *Table { return defTable }

// CatchAll obtains the terminal catch-all Rule.
func CatchAll() Rule { return Rule{Kind: Invalid, Pattern: CatchAllPattern} }

// NewTable validates & copies list into a Table.
//
// The last rule must be the only catch-all (Kind Invalid) & it must not be ignored.
func NewTable(list ...Rule) (t *Table, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrConfiguration, err)
			t = nil
		}
	}()

	last := len(list) - 1
	if last < 0 {
		err = ErrEmptyTable
		return
	}

	for index := range list {
		r := list[index]
		switch {
		case !r.Kind.Valid():
			err = fmt.Errorf("rule %d: %w: %d", index, ErrUnknownKind, int(r.Kind))
		case r.Pattern == "":
			err = fmt.Errorf("rule %d (%s): %w", index, r.Kind, ErrEmptyPattern)
		case r.Kind == Invalid && index != last:
			err = fmt.Errorf("rule %d: %w", index, ErrMisplacedCatchAll)
		case r.Kind == Invalid && r.Ignore:
			err = fmt.Errorf("rule %d: %w", index, ErrIgnoredCatchAll)
		}
		if err != nil {
			return
		}
	}
	if list[last].Kind != Invalid {
		err = fmt.Errorf("rule %d (%s): %w", last, list[last].Kind, ErrMissingCatchAll)
		return
	}

	t = &Table{rules: slices.Clone(list)}

	return
}

// Rules obtains a copy of the ordered rule sequence.
func (t *Table) Rules() []Rule { return slices.Clone(t.rules) }

// Len retrieves the number of rules, the catch-all included.
func (t *Table) Len() int { return len(t.rules) }

// At retrieves the rule at some priority index.
func (t *Table) At(index int) Rule { return t.rules[index] }

// Index locates the highest priority rule of some Kind, -1 if absent.
func (t *Table) Index(k Kind) int {
	return slices.IndexFunc(t.rules, func(r Rule) bool { return r.Kind == k })
}

// IsCatchAll reports whether the rule at index is the terminal catch-all.
func (t *Table) IsCatchAll(index int) bool { return index == len(t.rules)-1 }

// Keywords obtains the reserved words of the default language.
//
// The lexer does not consult this list; reserved words scan as Identifiers.
func Keywords() []string { return slices.Clone(keywords) }

// IsKeyword reports whether lexeme is a reserved word.
func IsKeyword(lexeme string) bool { return slices.Contains(keywords, lexeme) }


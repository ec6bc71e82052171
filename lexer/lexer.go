// SPDX-License-Identifier: MIT

// Package lexer converts source text into classified tokens using a priority ordered
// rule table compiled into a single matcher.
package lexer

// REF: https://gitlab.com/fisherprime/go-ddbms/-/blob/master/internal/v1/lexer.go

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"

	"gitlab.com/fisherprime/lexscan/rules"
)

type (
	// Lexer defines a type to capture tokens from a string.
	//
	// Synchronization is unnecessary, a Lexer is never modified after New; Scan may be called
	// from multiple goroutines.
	Lexer struct {
		cfg Config
		m   matcher
	}

	// ScanError is reported when only the catch-all rule matches at Offset.
	ScanError struct {
		// Remainder is the unconsumed source, starting at Offset.
		Remainder string
		// Offset is the position (in runes) of the unrecognized input.
		Offset int
	}
)

const (
	// remainderLimit caps the runes of the remainder rendered by ScanError.Error.
	remainderLimit = 512
)

// Lexing errors.
var (
	ErrConfiguration = rules.ErrConfiguration

	ErrUnexpectedToken = errors.New("unexpected token")
	ErrEmptyMatch      = errors.New("pattern matches the empty string")
	ErrCapturingGroup  = errors.New("pattern contains capturing groups")
	ErrInvalidCatchAll = errors.New("catch-all pattern does not match exactly one rune")
	ErrMatchTimeout    = errors.New("match timed out")
	ErrNoMatch         = errors.New("no rule matched")
	ErrInvalidOffset   = errors.New("invalid offset")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// New compiles the configured rule table into a Lexer.
func New(options ...Option) (l *Lexer, err error) {
	cfg := DefConfig()
	for _, opt := range options {
		opt(cfg)
	}
	cfg.Validate()

	var m matcher
	if m, err = compile(cfg); err != nil {
		if cfg.Debug {
			cfg.Logger.Debugf("lexer rules: %s", spew.Sdump(cfg.Rules.Rules()))
		}
		return
	}
	l = &Lexer{cfg: *cfg, m: m}

	return
}

// Config obtains a copy of the Lexer's Config.
func (l *Lexer) Config() Config { return l.cfg }

// Rules obtains the Lexer's rule table.
func (l *Lexer) Rules() *rules.Table { return l.cfg.Rules }

// Scan tokenizes text.
//
// Either every rune of text is accounted for by a rule or a *ScanError is returned; no
// partial token sequence accompanies an error. An empty text yields an empty sequence.
func (l *Lexer) Scan(text string) ([]Token, error) {
	return l.ScanContext(context.Background(), text)
}

// ScanContext is Scan with cancellation checked between matches.
func (l *Lexer) ScanContext(ctx context.Context, text string) (tokens []Token, err error) {
	src := []rune(text)
	tokens = make([]Token, 0, len(src)/4)

	defer func() {
		if err == nil {
			return
		}
		if l.cfg.Debug {
			l.cfg.Logger.Debugf("lexer tokens before failure: %s", spew.Sdump(tokens))
		}
		tokens = nil
	}()

	// pos tracks offset in bytes; lexemes are cut from text so that invalid UTF-8, decoded as
	// U+FFFD in src, survives unchanged.
	for offset, pos := 0, 0; offset < len(src); {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var m Match
		if m, err = l.next(src, offset); err != nil {
			var scanErr *ScanError
			if errors.As(err, &scanErr) {
				scanErr.Remainder = text[pos:]
			}
			return
		}

		length := utf8.RuneCountInString(m.Lexeme)
		width := runeWidth(text[pos:], length)
		m.Lexeme = text[pos : pos+width]

		if !m.Rule.Ignore {
			tokens = append(tokens, m.Token())
		}
		if l.cfg.Debug {
			l.cfg.Logger.Debugf("lexer %s match at %d: %q", m.Rule.Kind, offset, m.Lexeme)
		}

		offset += length
		pos += width
	}

	return
}

// runeWidth obtains the byte length of the first n runes of s.
func runeWidth(s string, n int) (width int) {
	for ; n > 0 && width < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[width:])
		width += size
	}

	return
}

// Match obtains the highest priority rule matching at offset (in runes) of src.
//
// A catch-all match is reported as a *ScanError. Lexemes are built from src, so invalid
// UTF-8 decoded into it reads as U+FFFD; Scan keeps the original bytes.
func (l *Lexer) Match(src []rune, offset int) (m Match, err error) {
	if offset < 0 || offset >= len(src) {
		err = fmt.Errorf("%w: %d of %d", ErrInvalidOffset, offset, len(src))
		return
	}

	return l.next(src, offset)
}

// next performs a single match at offset.
func (l *Lexer) next(src []rune, offset int) (m Match, err error) {
	index, length, err := l.m.match(src, offset)
	if err != nil {
		return
	}

	t := l.cfg.Rules
	if t.IsCatchAll(index) {
		err = &ScanError{Offset: offset, Remainder: string(src[offset:])}
		return
	}

	r := t.At(index)
	if length < 1 {
		err = fmt.Errorf("%w: rule %d (%s) at offset %d: %w", ErrConfiguration, index, r.Kind, offset, ErrEmptyMatch)
		return
	}

	m = Match{
		Rule:   r,
		Index:  index,
		Lexeme: string(src[offset : offset+length]),
		Offset: offset,
	}

	return
}

// Error is the `error` implementation for ScanError.
func (e *ScanError) Error() string {
	remainder := []rune(e.Remainder)
	if len(remainder) > remainderLimit {
		return fmt.Sprintf("%s at index %d: %s...", ErrUnexpectedToken, e.Offset, string(remainder[:remainderLimit]))
	}

	return fmt.Sprintf("%s at index %d: %s", ErrUnexpectedToken, e.Offset, e.Remainder)
}

// Unwrap allows errors.Is(err, ErrUnexpectedToken).
func (e *ScanError) Unwrap() error { return ErrUnexpectedToken }

// Position locates the ScanError's Offset within text.
func (e *ScanError) Position(text string) Position { return Locate(text, e.Offset) }

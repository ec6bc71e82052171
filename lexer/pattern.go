// SPDX-License-Identifier: MIT
package lexer

// REF: https://github.com/dlclark/regexp2#ecmascript-compatibility-mode

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"gitlab.com/fisherprime/lexscan/rules"
)

type (
	// matcher reports the highest priority rule matching exactly at some offset.
	matcher interface {
		match(src []rune, offset int) (index, length int, err error)
	}

	// combinedPattern is the ordered alternation of every rule, one capture group per rule.
	//
	// Group n+1 holds the match of rule n.
	combinedPattern struct {
		re    *regexp2.Regexp
		slots int
	}

	// sequentialPattern holds one `(rule)|catch-all` pattern per rule, tried in order.
	sequentialPattern struct {
		list []*regexp2.Regexp
	}
)

const (
	patternOpts = regexp2.ECMAScript

	// timeoutPrefix opens the message of regexp2's match timeout errors.
	timeoutPrefix = "match timeout"
)

// compile builds the matcher selected by the Config's Strategy.
func compile(cfg *Config) (m matcher, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}()

	t := cfg.Rules
	if t == nil || t.Len() < 1 {
		err = rules.ErrEmptyTable
		return
	}

	for index := 0; index < t.Len(); index++ {
		if err = checkRule(t, index); err != nil {
			return
		}
	}

	switch cfg.Strategy {
	case Sequential:
		m, err = compileSequential(cfg)
	default:
		m, err = compileCombined(cfg)
	}

	return
}

// checkRule validates a rule's pattern in isolation.
//
// Capturing groups would shift the slot numbering, an empty match would stall the scan.
func checkRule(t *rules.Table, index int) (err error) {
	r := t.At(index)

	re, err := regexp2.Compile(r.Pattern, patternOpts)
	if err != nil {
		err = fmt.Errorf("rule %d (%s): %w", index, r.Kind, err)
		return
	}
	if groups := re.GetGroupNumbers(); len(groups) > 1 {
		err = fmt.Errorf("rule %d (%s): %w: %d", index, r.Kind, ErrCapturingGroup, len(groups)-1)
		return
	}
	if t.IsCatchAll(index) {
		return checkCatchAll(r, index)
	}

	probe, err := regexp2.Compile(`^(?:`+r.Pattern+`)`, patternOpts)
	if err != nil {
		err = fmt.Errorf("rule %d (%s): %w", index, r.Kind, err)
		return
	}
	var empty bool
	if empty, err = probe.MatchString(""); err != nil {
		return
	}
	if empty {
		err = fmt.Errorf("rule %d (%s): %w", index, r.Kind, ErrEmptyMatch)
	}

	return
}

// catchAllSamples pair an arbitrary rune with a follower the catch-all must leave alone.
var catchAllSamples = []string{"a#", "#a", "0 ", "\n\n", "\r\n", "é\u2028", "\u2028x", "\U0001F600x", "\x00\x00"}

// checkCatchAll verifies that the terminal rule consumes exactly one rune of any input.
func checkCatchAll(r rules.Rule, index int) (err error) {
	probe, err := regexp2.Compile(`^(?:`+r.Pattern+`)`, patternOpts)
	if err != nil {
		err = fmt.Errorf("rule %d (%s): %w", index, r.Kind, err)
		return
	}

	for _, sample := range catchAllSamples {
		var m *regexp2.Match
		if m, err = probe.FindRunesMatch([]rune(sample)); err != nil {
			return
		}
		if m == nil || m.Length != 1 {
			err = fmt.Errorf("rule %d (%s): %w: %q", index, r.Kind, ErrInvalidCatchAll, sample)
			return
		}
	}

	return
}

func compileCombined(cfg *Config) (c *combinedPattern, err error) {
	t := cfg.Rules

	alternatives := make([]string, t.Len())
	for index := range alternatives {
		alternatives[index] = "(" + t.At(index).Pattern + ")"
	}
	source := strings.Join(alternatives, "|")

	cfg.Logger.Debugf("lexer combined pattern: %s", source)

	re, err := regexp2.Compile(source, patternOpts)
	if err != nil {
		return
	}
	if cfg.MatchTimeout > 0 {
		re.MatchTimeout = cfg.MatchTimeout
	}
	c = &combinedPattern{re: re, slots: t.Len()}

	return
}

func compileSequential(cfg *Config) (s *sequentialPattern, err error) {
	t := cfg.Rules

	s = &sequentialPattern{list: make([]*regexp2.Regexp, t.Len())}
	for index := range s.list {
		// The trailing catch-all pins the match to the requested offset.
		source := "(" + t.At(index).Pattern + ")|" + rules.CatchAllPattern
		if cfg.Debug {
			cfg.Logger.Debugf("lexer rule %d pattern: %s", index, source)
		}

		var re *regexp2.Regexp
		if re, err = regexp2.Compile(source, patternOpts); err != nil {
			s = nil
			return
		}
		if cfg.MatchTimeout > 0 {
			re.MatchTimeout = cfg.MatchTimeout
		}
		s.list[index] = re
	}

	return
}

func (c *combinedPattern) match(src []rune, offset int) (index, length int, err error) {
	m, err := c.re.FindRunesMatchStartingAt(src, offset)
	if err != nil {
		err = engineError(err, offset)
		return
	}
	if m == nil || m.Index != offset {
		err = fmt.Errorf("%w: offset %d", ErrNoMatch, offset)
		return
	}

	for index = 0; index < c.slots; index++ {
		if g := m.GroupByNumber(index + 1); g != nil && len(g.Captures) > 0 {
			length = g.Length
			return
		}
	}
	err = fmt.Errorf("%w: offset %d", ErrNoMatch, offset)

	return
}

func (s *sequentialPattern) match(src []rune, offset int) (index, length int, err error) {
	for index = range s.list {
		var m *regexp2.Match
		if m, err = s.list[index].FindRunesMatchStartingAt(src, offset); err != nil {
			err = engineError(err, offset)
			return
		}
		if m == nil || m.Index != offset {
			continue
		}

		if g := m.GroupByNumber(1); g != nil && len(g.Captures) > 0 {
			length = g.Length
			return
		}
	}
	err = fmt.Errorf("%w: offset %d", ErrNoMatch, offset)

	return
}

// engineError annotates a failed match attempt, flagging the engine's timeouts.
//
// regexp2 reports timeouts as untyped errors, recognizable only by their message.
func engineError(err error, offset int) error {
	if strings.HasPrefix(err.Error(), timeoutPrefix) {
		return fmt.Errorf("%w at offset %d: %w", ErrMatchTimeout, offset, err)
	}

	return fmt.Errorf("offset %d: %w", offset, err)
}

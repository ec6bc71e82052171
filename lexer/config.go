// SPDX-License-Identifier: MIT
package lexer

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/lexscan/rules"
)

type (
	// Strategy selects how the rule table is matched at an offset.
	Strategy int

	// Config defines configuration options for the Lexer's operations.
	Config struct {
		// Logger for Lexer messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger

		// Rules is the ordered rule table; nil selects rules.Default().
		Rules *rules.Table

		// MatchTimeout bounds a single match attempt, zero disables the bound.
		MatchTimeout time.Duration

		Strategy Strategy
		Debug    bool
	}

	// Option defines the Lexer functional option type.
	Option func(*Config)
)

const (
	// Combined matches every rule through one alternation per token.
	Combined Strategy = iota
	// Sequential tries each rule's pattern in priority order per token.
	Sequential
)

var strategyNames = [...]string{
	Combined:   "combined",
	Sequential: "sequential",
}

// String is the `fmt.Stringer` implementation for Strategy.
func (s Strategy) String() string {
	if s >= Combined && s <= Sequential {
		return strategyNames[s]
	}

	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy obtains the Strategy named by name.
func ParseStrategy(name string) (s Strategy, err error) {
	for index := range strategyNames {
		if strategyNames[index] == name {
			s = Strategy(index)
			return
		}
	}
	err = fmt.Errorf("%w: %q", ErrUnknownStrategy, name)

	return
}

// DefConfig obtains the package's default Config.
func DefConfig() *Config {
	return &Config{
		Logger:   logrus.New(),
		Rules:    rules.Default(),
		Strategy: Combined,
	}
}

// Validate populates missing Config entries with defaults.
func (c *Config) Validate() {
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.Rules == nil {
		c.Rules = rules.Default()
	}
	if c.Strategy != Sequential {
		c.Strategy = Combined
	}
	if c.MatchTimeout < 0 {
		c.MatchTimeout = 0
	}
}

// WithConfig replaces the Config wholesale.
func WithConfig(cfg Config) Option { return func(c *Config) { *c = cfg } }

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(c *Config) { c.Debug = debug } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(c *Config) { c.Logger = logger } }

// WithRules configures the rule table.
func WithRules(t *rules.Table) Option { return func(c *Config) { c.Rules = t } }

// WithStrategy configures the matching strategy.
func WithStrategy(s Strategy) Option { return func(c *Config) { c.Strategy = s } }

// WithMatchTimeout configures the per match timeout.
func WithMatchTimeout(d time.Duration) Option { return func(c *Config) { c.MatchTimeout = d } }

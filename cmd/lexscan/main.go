// SPDX-License-Identifier: MIT

// Command lexscan tokenizes source files with the default, priority ordered rule table.
//
// Every token is printed as `path:line:column kind lexeme`, or as a JSON object per line.
// Files containing unrecognized input are reported & make the command exit with status 1.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

type cli struct {
	Paths        []string      `arg:"" help:"Files or directories to scan" type:"path"`
	Include      string        `help:"Glob selecting files within directories" default:"*.js"`
	Workers      int           `help:"Number of concurrent scans, 0 for one per CPU" default:"0"`
	Strategy     string        `help:"Rule matching strategy" enum:"combined,sequential" default:"combined"`
	MatchTimeout time.Duration `help:"Bound on a single match attempt, 0 disables it" default:"0s"`
	Format       string        `help:"Output format" enum:"text,json" default:"text"`
	Debug        bool          `help:"Enable debug logging"`
}

func main() {
	var params cli
	kctx := kong.Parse(&params,
		kong.Name("lexscan"),
		kong.Description("Tokenize source files with a priority ordered rule table."),
	)

	logger := logrus.New()
	if params.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	failed, err := run(ctx, &params, logger, os.Stdout)
	stop()
	kctx.FatalIfErrorf(err)

	if failed {
		os.Exit(1)
	}
}

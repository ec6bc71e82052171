// SPDX-License-Identifier: MIT
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/lexscan/batch"
	"gitlab.com/fisherprime/lexscan/lexer"
)

type (
	// record is the JSON output of a token.
	record struct {
		File string `json:"file"`
		lexer.Token
		Line   int `json:"line"`
		Column int `json:"column"`
	}
)

// Command errors.
var (
	ErrInvalidInclude = errors.New("invalid include glob")
	ErrNoSources      = errors.New("no source files")
)

// run scans the files selected by params, writing tokens to w.
//
// failed reports that some file contained unrecognized input or could not be scanned.
func run(ctx context.Context, params *cli, logger logrus.FieldLogger, w io.Writer) (failed bool, err error) {
	strategy, err := lexer.ParseStrategy(params.Strategy)
	if err != nil {
		return
	}

	include, err := glob.Compile(params.Include)
	if err != nil {
		err = fmt.Errorf("%w %q: %v", ErrInvalidInclude, params.Include, err)
		return
	}

	sources, err := collect(params.Paths, include)
	if err != nil {
		return
	}
	if len(sources) < 1 {
		err = ErrNoSources
		return
	}
	logger.Debugf("lexscan sources: %d", len(sources))

	l, err := lexer.New(
		lexer.WithLogger(logger),
		lexer.WithDebug(params.Debug),
		lexer.WithStrategy(strategy),
		lexer.WithMatchTimeout(params.MatchTimeout),
	)
	if err != nil {
		return
	}

	results, err := batch.Scan(ctx, l, sources,
		batch.WithWorkers(params.Workers),
		batch.WithLogger(logger),
		batch.WithDebug(params.Debug),
	)
	if err != nil {
		return
	}

	out := bufio.NewWriter(w)
	defer func() {
		if fErr := out.Flush(); err == nil {
			err = fErr
		}
	}()

	enc := json.NewEncoder(out)
	for index := range results {
		r, text := &results[index], sources[index].Text

		if r.Err != nil {
			failed = true

			var scanErr *lexer.ScanError
			if errors.As(r.Err, &scanErr) {
				logger.Errorf("%s:%s: %v", r.Name, scanErr.Position(text), scanErr)
				continue
			}
			logger.WithField("file", r.Name).Error(r.Err)

			continue
		}

		li := lexer.NewLineIndex(text)
		for _, token := range r.Tokens {
			pos := li.Position(token.Offset)

			if params.Format == "json" {
				err = enc.Encode(record{File: r.Name, Token: token, Line: pos.Line, Column: pos.Column})
			} else {
				_, err = fmt.Fprintf(out, "%s:%s\t%s\t%q\n", r.Name, pos, token.Kind, token.Lexeme)
			}
			if err != nil {
				return
			}
		}
	}

	return
}

// collect reads the files named by paths; directories are walked for files whose base name
// matches include.
func collect(paths []string, include glob.Glob) (sources []batch.Source, err error) {
	var files []string
	for _, path := range paths {
		var info fs.FileInfo
		if info, err = os.Stat(path); err != nil {
			return
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() && include.Match(d.Name()) {
				files = append(files, p)
			}

			return nil
		})
		if err != nil {
			return
		}
	}

	sources = make([]batch.Source, len(files))
	for index, file := range files {
		var data []byte
		if data, err = os.ReadFile(file); err != nil {
			sources = nil
			return
		}
		sources[index] = batch.Source{Name: file, Text: string(data)}
	}

	return
}

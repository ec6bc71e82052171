// SPDX-License-Identifier: MIT

// Package batch scans multiple sources concurrently with a shared, read-only lexer.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/lexscan/lexer"
)

type (
	// Scanner defines the scanning operation shared by the workers.
	//
	// Implementations must be safe for concurrent use; *lexer.Lexer is.
	Scanner interface {
		ScanContext(ctx context.Context, text string) ([]lexer.Token, error)
	}

	// Source is a named text to scan.
	Source struct {
		Name string
		Text string
	}

	// Result holds the outcome of scanning a Source.
	Result struct {
		Err    error
		Name   string
		Tokens []lexer.Token
	}

	// Opts defines options for the batch's operations.
	Opts struct {
		Logger  logrus.FieldLogger
		Workers int
		Debug   bool
	}

	// Option defines the batch functional option type.
	Option func(*Opts)
)

// Batch errors.
var (
	ErrPanicked   = errors.New("recovery from panic")
	ErrNilScanner = errors.New("nil scanner")
)

// NewOpts configures the batch's default Opts.
func NewOpts() *Opts {
	return &Opts{
		Logger:  logrus.New(),
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Validate populates missing Opts entries with defaults.
func (o *Opts) Validate() {
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
	if o.Workers < 1 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
}

// WithWorkers configures the worker count.
func WithWorkers(n int) Option { return func(o *Opts) { o.Workers = n } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(o *Opts) { o.Logger = logger } }

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(o *Opts) { o.Debug = debug } }

// Scan tokenizes sources on a worker pool.
//
// Results follow the order of sources; a source's scan failure is held by its Result. err
// reports a failure of the batch itself: pool setup or context cancellation.
func Scan(ctx context.Context, s Scanner, sources []Source, options ...Option) (results []Result, err error) {
	o := NewOpts()
	for _, opt := range options {
		opt(o)
	}
	o.Validate()

	if s == nil {
		err = ErrNilScanner
		return
	}

	results = make([]Result, len(sources))
	for index := range sources {
		results[index].Name = sources[index].Name
	}
	if len(sources) < 1 {
		return
	}

	workers := o.Workers
	if workers > len(sources) {
		workers = len(sources)
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(workers, func(arg interface{}) {
		index := arg.(int)

		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				results[index].Tokens = nil
				results[index].Err = fmt.Errorf("%w: %v", ErrPanicked, r)
			}
		}()

		results[index].Tokens, results[index].Err = s.ScanContext(ctx, sources[index].Text)
	}, ants.WithLogger(o.Logger))
	if err != nil {
		return
	}
	defer pool.Release()

	submitted := 0
	for ; submitted < len(sources); submitted++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		default:
			wg.Add(1)
			if err = pool.Invoke(submitted); err != nil {
				wg.Done()
			}
		}
		if err != nil {
			break
		}
	}
	wg.Wait()

	if err == nil {
		err = ctx.Err()
	}
	for index := submitted; index < len(sources); index++ {
		results[index].Err = err
	}
	observe(results)

	if o.Debug {
		o.Logger.Debugf("batch scanned %d/%d sources with %d workers", submitted, len(sources), workers)
	}

	return
}

// Errors joins the failures held by results, nil if every source scanned.
func Errors(results []Result) error {
	var list []error
	for index := range results {
		if results[index].Err != nil {
			list = append(list, fmt.Errorf("%s: %w", results[index].Name, results[index].Err))
		}
	}

	return errors.Join(list...)
}

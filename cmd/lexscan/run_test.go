// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/lexscan/rules"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("os.WriteFile() error = %v", err)
		}
	}

	return dir
}

func newTestParams(paths ...string) *cli {
	return &cli{
		Paths:    paths,
		Include:  "*.js",
		Strategy: "combined",
		Format:   "text",
	}
}

func TestRun(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js":  "a = 1;\nb",
		"c.txt": "#",
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var out bytes.Buffer
	failed, err := run(context.Background(), newTestParams(dir), logger, &out)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if failed {
		t.Errorf("run() failed = true, want false")
	}

	path := filepath.Join(dir, "a.js")
	want := strings.Join([]string{
		path + ":1:1\tidentifier\t\"a\"",
		path + ":1:3\toperator\t\"=\"",
		path + ":1:5\tinteger\t\"1\"",
		path + ":1:6\tseparator\t\";\"",
		path + ":2:1\tidentifier\t\"b\"",
	}, "\n") + "\n"
	if got := out.String(); got != want {
		t.Errorf("run() output = %q, want %q", got, want)
	}
}

func TestRun_json(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "x\n 'y'"})

	params := newTestParams(filepath.Join(dir, "a.js"))
	params.Format = "json"
	params.Strategy = "sequential"

	var out bytes.Buffer
	if _, err := run(context.Background(), params, logrus.New(), &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var got []record
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r record
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("json.Decode() error = %v", err)
		}
		got = append(got, r)
	}

	if len(got) != 2 {
		t.Fatalf("run() records = %+v, want 2", got)
	}
	if got[1].Kind != rules.SingleQuotedString || got[1].Lexeme != "'y'" || got[1].Offset != 3 ||
		got[1].Line != 2 || got[1].Column != 2 {
		t.Errorf("run() record = %+v", got[1])
	}
}

func TestRun_failures(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.js": "a#b", "good.js": "a"})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tests := []struct {
		name       string
		params     *cli
		wantFailed bool
		wantErr    error
	}{
		{
			name:       "unexpected token",
			params:     newTestParams(dir),
			wantFailed: true,
		},
		{
			name:    "no sources",
			params:  &cli{Paths: []string{dir}, Include: "*.ts", Strategy: "combined", Format: "text"},
			wantErr: ErrNoSources,
		},
		{
			name:    "invalid include",
			params:  &cli{Paths: []string{dir}, Include: "[", Strategy: "combined", Format: "text"},
			wantErr: ErrInvalidInclude,
		},
		{
			name:    "missing path",
			params:  newTestParams(filepath.Join(dir, "missing.js")),
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failed, err := run(context.Background(), tt.params, logger, io.Discard)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("run() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if failed != tt.wantFailed {
				t.Errorf("run() failed = %v, want %v", failed, tt.wantFailed)
			}
		})
	}
}

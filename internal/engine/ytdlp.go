// Package engine drives the yt-dlp executable: a metadata-only probe and a
// full fetch, both built from the same options bag.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/apex/log"

	"ytsave/internal/options"
	"ytsave/internal/util"
)

// YTDLP runs yt-dlp as a subprocess.
type YTDLP struct {
	path   string
	runner util.CmdRunner
	stream bool
	logger log.Interface
}

// Option configures a YTDLP.
type Option func(*YTDLP)

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(y *YTDLP) {
		y.runner = r
	}
}

// WithStream copies yt-dlp's fetch output to the terminal.
func WithStream(on bool) Option {
	return func(y *YTDLP) {
		y.stream = on
	}
}

// WithLogger sets the logger used for skipped-option warnings.
func WithLogger(l log.Interface) Option {
	return func(y *YTDLP) {
		y.logger = l
	}
}

// New returns an engine for the yt-dlp binary at path.
func New(path string, opts ...Option) *YTDLP {
	y := &YTDLP{path: path}
	for _, o := range opts {
		o(y)
	}
	if y.logger == nil {
		y.logger = log.Log
	}
	if y.runner == nil {
		y.runner = &util.ExecRunner{Log: y.logger}
	}
	return y
}

// Probe fetches metadata only and reports whether url is a single video or
// a collection.
func (y *YTDLP) Probe(ctx context.Context, url string, opts options.Options) (Info, error) {
	if y.path == "" {
		return Info{}, errors.New("yt-dlp path is required")
	}
	args, err := ProbeArgs(opts)
	if err != nil {
		return Info{}, err
	}
	args = append(args, "--", url)

	res, runErr := y.runner.Run(ctx, util.CmdSpec{
		Path:          y.path,
		Args:          args,
		CaptureStdout: true,
	})
	if runErr != nil && len(res.Stdout) == 0 {
		return Info{}, fmt.Errorf("probe failed: %w%s", runErr, stderrTail(res.Stderr))
	}
	return parseInfo(res.Stdout)
}

// Fetch downloads url. onLine, when set, receives every stdout line.
func (y *YTDLP) Fetch(ctx context.Context, url string, opts options.Options, onLine func(string)) error {
	if y.path == "" {
		return errors.New("yt-dlp path is required")
	}
	args, unknown, err := Args(opts)
	if err != nil {
		return err
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		y.logger.WithField("keys", strings.Join(unknown, ",")).Warn("options with no yt-dlp flag were skipped")
	}
	args = append(args, "--newline", "--", url)

	res, runErr := y.runner.Run(ctx, util.CmdSpec{
		Path:       y.path,
		Args:       args,
		Stream:     y.stream,
		StdoutLine: onLine,
	})
	if runErr != nil {
		return fmt.Errorf("yt-dlp failed: %w%s", runErr, stderrTail(res.Stderr))
	}
	return nil
}

// parseInfo decodes the JSON document on stdout. If stdout carries extra
// lines, the last line that decodes is used.
func parseInfo(stdout []byte) (Info, error) {
	data := strings.TrimSpace(string(stdout))
	if data == "" {
		return Info{}, errors.New("probe produced no output")
	}
	var info Info
	err := json.Unmarshal([]byte(data), &info)
	if err == nil {
		return info, nil
	}
	lines := strings.Split(data, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var tmp Info
		if json.Unmarshal([]byte(line), &tmp) == nil && (tmp.ID != "" || tmp.Type != "") {
			return tmp, nil
		}
	}
	return Info{}, fmt.Errorf("parse metadata JSON: %w", err)
}

// stderrTail returns the last non-empty stderr line, prefixed for wrapping.
func stderrTail(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return ": " + l
		}
	}
	return ""
}

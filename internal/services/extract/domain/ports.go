package domain

import (
	"context"
	"io"

	"dumpx/internal/core/post"
	"dumpx/internal/core/render"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context, req Request) (Summary, error)
}

// Opener resolves an input location to a byte stream
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// ScannerPort yields records one at a time in document order
// Next returns io.EOF when the input is exhausted; any other error is fatal
type ScannerPort interface {
	Next(ctx context.Context) (*post.Record, error)
	Close() error
	Stats() ReadStats
}

// ReadStats are the reader-side counters behind a ScannerPort
type ReadStats struct {
	Rows     int
	Skipped  int
	Elements int // start elements seen, rows and wrappers alike
	Bytes    int64
}

// ScannerFactory builds a scanner over an opened input; it owns rc from then on
type ScannerFactory interface {
	New(rc io.ReadCloser) (ScannerPort, error)
}

// Matcher is the predicate set as seen by the collector
type Matcher interface {
	Reject(r *post.Record) (name string, ok bool)
}

// Renderer serializes accepted records
type Renderer = render.Renderer

// Output is a pending rendered document
type Output interface {
	io.Writer
	Commit() error
	Abort() error
	Dest() string
}

// Sink opens outputs by destination
type Sink interface {
	Open(dest string) (Output, error)
}

// Progress receives periodic counters while a scan runs
type Progress interface {
	Report(ctx context.Context, s ScanStats)
}

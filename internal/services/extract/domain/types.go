// Package domain holds the types and ports of the extract service
package domain

import (
	"time"

	"dumpx/internal/core/filter"
	"dumpx/internal/core/post"
)

// Termination says why a scan stopped without error
type Termination uint8

// Termination reasons
const (
	TargetReached Termination = iota + 1
	InputExhausted
)

// String returns the label used in logs and summaries
func (t Termination) String() string {
	switch t {
	case TargetReached:
		return "target_reached"
	case InputExhausted:
		return "input_exhausted"
	default:
		return "none"
	}
}

// ScanStats are the counters of one scan
type ScanStats struct {
	Rows     int   // row elements read, skipped ones included
	Elements int   // every start element seen; far above Rows means the row element name is wrong
	Skipped  int   // rows dropped as malformed records
	Scanned  int   // records handed to the predicate set
	Accepted int   // records kept
	Bytes    int64 // decompressed input consumed
	Elapsed  time.Duration

	RejectedBy map[string]int    // first failing predicate per rejected record
	ByType     map[post.Type]int // accepted records per post type
}

// Rejected is the number of scanned records the predicate set turned down
func (s ScanStats) Rejected() int { return s.Scanned - s.Accepted }

// ScanResult is the ordered list of accepted records and why the scan stopped
type ScanResult struct {
	Records []*post.Record
	Reason  Termination
	Stats   ScanStats
}

// Request is one extraction: where to read, what to keep, and how to write it
type Request struct {
	Input  string
	Output string // empty picks the format default, "-" is stdout
	Format string // empty picks the configured default
	Fields []string
	Filter filter.Config
}

// Summary reports a finished extraction
type Summary struct {
	ScanID string
	Output string
	Format string
	Result ScanResult
}

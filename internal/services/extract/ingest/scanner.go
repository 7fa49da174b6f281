// Package ingest holds adapter shims for extract ports
package ingest

import (
	"context"
	"io"

	"dumpx/internal/adapters/ingest/stackdump"
	"dumpx/internal/core/post"
	perr "dumpx/internal/platform/errors"
	"dumpx/internal/platform/logger"
	"dumpx/internal/services/extract/domain"
)

// scannerFactory adapts stackdump.NewReader to domain.ScannerFactory
type scannerFactory struct {
	element string
}

// NewScannerFactory returns a factory reading rows named element ("" is the dump default)
func NewScannerFactory(element string) domain.ScannerFactory {
	return scannerFactory{element: element}
}

func (f scannerFactory) New(rc io.ReadCloser) (domain.ScannerPort, error) {
	rd, err := stackdump.NewReader(rc, stackdump.WithElement(f.element))
	if err != nil {
		return nil, err
	}
	return &scanner{rd: rd}, nil
}

// scanner turns raw rows into records, dropping rows that do not parse
type scanner struct {
	rd      *stackdump.Reader
	skipped int
}

func (s *scanner) Next(ctx context.Context) (*post.Record, error) {
	for {
		row, err := s.rd.Next(ctx)
		if err != nil {
			return nil, err
		}
		rec, err := post.FromAttrs(toAttrs(row.Attrs))
		if err != nil {
			s.skipped++
			ev := logger.C(ctx).Warn().Int("line", row.Line).Err(err)
			if e, ok := perr.As(err); ok && e.Field() != "" {
				ev = ev.Str("field", e.Field())
			}
			if id, ok := row.Get(post.AttrID); ok {
				ev = ev.Str("id", id)
			}
			ev.Msg("extract: skipping malformed row")
			continue
		}
		return rec, nil
	}
}

func (s *scanner) Close() error { return s.rd.Close() }

func (s *scanner) Stats() domain.ReadStats {
	rows, n := s.rd.Stats()
	return domain.ReadStats{Rows: rows, Skipped: s.skipped, Elements: s.rd.Elements(), Bytes: n}
}

func toAttrs(in []stackdump.Attr) []post.Attr {
	out := make([]post.Attr, len(in))
	for i, a := range in {
		out[i] = post.Attr{Name: a.Name, Value: a.Value}
	}
	return out
}

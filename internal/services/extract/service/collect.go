package service

import (
	"context"
	"errors"
	"io"
	"time"

	"dumpx/internal/core/post"
	perr "dumpx/internal/platform/errors"
	"dumpx/internal/platform/logger"
	"dumpx/internal/services/extract/domain"
)

// Collect pulls records from sc until target are accepted or the input runs out
// sc is closed on every return path. A fatal scanner error discards the partial result,
// keeping only the counters; exhaustion before target is a normal result.
// p may be nil
func Collect(
	ctx context.Context,
	sc domain.ScannerPort,
	m domain.Matcher,
	target int,
	p domain.Progress,
) (res domain.ScanResult, retErr error) {
	if target <= 0 {
		_ = sc.Close()
		return domain.ScanResult{}, perr.WithField(perr.Configf("target count must be positive, got %d", target), "target")
	}

	start := time.Now()
	stats := domain.ScanStats{
		RejectedBy: map[string]int{},
		ByType:     map[post.Type]int{},
	}
	defer func() {
		if cerr := sc.Close(); cerr != nil {
			logger.C(ctx).Warn().Err(cerr).Msg("extract: closing input failed")
		}
		res.Stats = finalize(stats, sc.Stats(), start)
	}()

	recs := make([]*post.Record, 0, min(target, 1024))
	for {
		rec, err := sc.Next(ctx)
		if errors.Is(err, io.EOF) {
			return domain.ScanResult{Records: recs, Reason: domain.InputExhausted}, nil
		}
		if err != nil {
			return domain.ScanResult{}, perr.FromStream(err, "extract.collect")
		}

		stats.Scanned++
		if name, ok := m.Reject(rec); !ok {
			stats.RejectedBy[name]++
		} else {
			recs = append(recs, rec)
			stats.Accepted++
			stats.ByType[rec.Type]++
		}

		if p != nil {
			p.Report(ctx, finalize(stats, sc.Stats(), start))
		}
		if len(recs) >= target {
			return domain.ScanResult{Records: recs, Reason: domain.TargetReached}, nil
		}
	}
}

func finalize(s domain.ScanStats, rs domain.ReadStats, start time.Time) domain.ScanStats {
	s.Rows = rs.Rows
	s.Elements = rs.Elements
	s.Skipped = rs.Skipped
	s.Bytes = rs.Bytes
	s.Elapsed = time.Since(start)
	return s
}

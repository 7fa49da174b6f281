package service

import (
	"context"

	"dumpx/internal/platform/logger"
	"dumpx/internal/services/extract/domain"
)

// LogProgress logs counters every Every scanned records; zero or less disables it
type LogProgress struct {
	Every int
	next  int
}

// Report implements domain.Progress
func (lp *LogProgress) Report(ctx context.Context, s domain.ScanStats) {
	if lp.Every <= 0 {
		return
	}
	if lp.next == 0 {
		lp.next = lp.Every
	}
	if s.Scanned < lp.next {
		return
	}
	lp.next = s.Scanned + lp.Every

	rate := 0.0
	if secs := s.Elapsed.Seconds(); secs > 0 {
		rate = float64(s.Scanned) / secs
	}
	logger.C(ctx).Info().
		Int("scanned", s.Scanned).
		Int("accepted", s.Accepted).
		Int("skipped", s.Skipped).
		Int64("bytes", s.Bytes).
		Float64("rows_per_sec", rate).
		Msg("extract: progress")
}

// Package service provides the extract service: open, scan, collect, render
package service

import (
	"context"
	"strings"
	"time"

	"dumpx/internal/core/filter"
	"dumpx/internal/core/render"
	perr "dumpx/internal/platform/errors"
	"dumpx/internal/platform/logger"
	"dumpx/internal/services/extract/domain"
	"dumpx/internal/services/extract/guardrails"

	"github.com/google/uuid"
)

// Config holds configuration options for the extract service
type Config struct {
	Format        string   // default output format when a request names none
	Fields        []string // default flat attribute subset; unused for topics
	TopicPrefix   string
	Indent        bool
	Compact       bool
	ProgressEvery int // scanned records between progress lines; <=0 disables

	ScanTimeout  time.Duration // 0 = unlimited
	WriteTimeout time.Duration
}

// Service implements domain.RunnerPort
type Service struct {
	Open     domain.Opener
	Scanners domain.ScannerFactory
	Sink     domain.Sink
	Cfg      Config

	newID func() string
}

// New constructs the extract service
func New(o domain.Opener, sf domain.ScannerFactory, sink domain.Sink, cfg Config) *Service {
	if o == nil || sf == nil || sink == nil {
		panic("extract.Service requires an opener, a scanner factory and a sink")
	}
	return &Service{Open: o, Scanners: sf, Sink: sink, Cfg: cfg, newID: uuid.NewString}
}

// Run performs one extraction
// Configuration is checked before the input is touched, and nothing is written unless the scan succeeds
func (s *Service) Run(ctx context.Context, req domain.Request) (domain.Summary, error) {
	format := req.Format
	if format == "" {
		format = s.Cfg.Format
	}
	fields := req.Fields
	if len(fields) == 0 && strings.EqualFold(strings.TrimSpace(format), render.FormatFlat) {
		fields = s.Cfg.Fields
	}
	preds, err := filter.Build(req.Filter)
	if err != nil {
		return domain.Summary{}, err
	}
	rdr, err := render.New(format, render.Options{
		Indent:  s.Cfg.Indent,
		Prefix:  s.Cfg.TopicPrefix,
		Fields:  fields,
		Compact: s.Cfg.Compact,
	})
	if err != nil {
		return domain.Summary{}, err
	}
	dest := req.Output
	if dest == "" {
		dest = render.DefaultPath(rdr.Name())
	}

	sum := domain.Summary{ScanID: s.newID(), Output: dest, Format: rdr.Name()}
	ctx = logger.WithScan(ctx, sum.ScanID, req.Input)
	log := logger.C(ctx)
	log.Info().
		Int("target", req.Filter.Target).
		Strs("predicates", preds.Names()).
		Str("format", sum.Format).
		Str("output", dest).
		Msg("extract: scan starting")

	tos := guardrails.Timeouts{Scan: s.Cfg.ScanTimeout, Write: s.Cfg.WriteTimeout}
	res, err := s.scan(ctx, tos, req, preds)
	sum.Result = res
	if err != nil {
		log.Error().Err(err).
			Str("code", perr.CodeOf(err).String()).
			Int("rows", res.Stats.Rows).
			Int("scanned", res.Stats.Scanned).
			Msg("extract: scan failed; nothing written")
		return sum, err
	}

	if err := s.write(ctx, tos, dest, rdr, res); err != nil {
		log.Error().Err(err).Str("output", dest).Msg("extract: write failed")
		return sum, err
	}

	logSummary(ctx, sum)
	return sum, nil
}

func (s *Service) scan(ctx context.Context, tos guardrails.Timeouts, req domain.Request, m domain.Matcher) (domain.ScanResult, error) {
	scanCtx, cancel := guardrails.ForScan(ctx, tos)
	defer cancel()

	rc, err := s.Open.Open(scanCtx, req.Input)
	if err != nil {
		return domain.ScanResult{}, err
	}
	sc, err := s.Scanners.New(rc)
	if err != nil {
		return domain.ScanResult{}, err
	}
	return Collect(scanCtx, sc, m, req.Filter.Target, &LogProgress{Every: s.Cfg.ProgressEvery})
}

func (s *Service) write(ctx context.Context, tos guardrails.Timeouts, dest string, rdr domain.Renderer, res domain.ScanResult) error {
	wctx, cancel := guardrails.ForWrite(ctx, tos)
	defer cancel()

	out, err := s.Sink.Open(dest)
	if err != nil {
		return err
	}
	if err := rdr.Render(out, res.Records); err != nil {
		_ = out.Abort()
		return err
	}
	if err := wctx.Err(); err != nil {
		_ = out.Abort()
		return perr.FromStream(err, "extract.write")
	}
	return out.Commit()
}

func logSummary(ctx context.Context, sum domain.Summary) {
	st := sum.Result.Stats
	byType := make(map[string]any, len(st.ByType))
	for t, n := range st.ByType {
		byType[t.String()] = n
	}
	rejected := make(map[string]any, len(st.RejectedBy))
	for k, n := range st.RejectedBy {
		rejected[k] = n
	}
	logger.C(ctx).Info().
		Str("reason", sum.Result.Reason.String()).
		Int("accepted", st.Accepted).
		Int("scanned", st.Scanned).
		Int("elements", st.Elements).
		Int("rejected", st.Rejected()).
		Int("skipped", st.Skipped).
		Int64("bytes", st.Bytes).
		Dur("elapsed", st.Elapsed).
		Fields(map[string]any{"by_type": byType, "rejected_by": rejected}).
		Str("output", sum.Output).
		Msg("extract: done")
}

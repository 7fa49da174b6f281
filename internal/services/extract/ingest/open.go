package ingest

import (
	"context"
	"io"
	"time"

	"dumpx/internal/adapters/ingest/stackdump"
	"dumpx/internal/services/extract/domain"
)

// opener implements domain.Opener over local files, stdin, and http(s)
type opener struct {
	f stackdump.Fetcher
}

// NewOpener builds an Opener; httpTimeout of zero means no client timeout
func NewOpener(httpTimeout time.Duration) domain.Opener {
	return &opener{f: stackdump.NewHTTPFetcherWithTimeout(httpTimeout)}
}

func (o *opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	return stackdump.Open(ctx, location, o.f)
}

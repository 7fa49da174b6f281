package ingest

import (
	"dumpx/internal/adapters/sink"
	"dumpx/internal/services/extract/domain"
)

type fileSink struct{}

// NewSink returns the atomic file / stdout sink
func NewSink() domain.Sink { return fileSink{} }

func (fileSink) Open(dest string) (domain.Output, error) { return sink.Open(dest) }

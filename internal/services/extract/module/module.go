// Package module provides the extract module implementation
package module

import (
	"dumpx/internal/modkit"
	"dumpx/internal/services/extract/domain"
	"dumpx/internal/services/extract/ingest"
	"dumpx/internal/services/extract/service"
)

// Ports defines the extract module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the extract module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the extract module
// It wires up the adapters and the service using config from deps.Cfg
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	open := ingest.NewOpener(opts.HTTPTimeout)
	scanners := ingest.NewScannerFactory(opts.RowElement)
	sink := ingest.NewSink()

	svc := service.New(open, scanners, sink, service.Config{
		Format:        opts.Format,
		Fields:        opts.Fields,
		TopicPrefix:   opts.TopicPrefix,
		Indent:        opts.Indent,
		Compact:       opts.Compact,
		ProgressEvery: opts.ProgressEvery,
		ScanTimeout:   opts.ScanTimeout,
		WriteTimeout:  opts.WriteTimeout,
	})

	deps.Logger().Debug().
		Str("row_element", opts.RowElement).
		Str("format", opts.Format).
		Strs("fields", opts.Fields).
		Int("progress_every", opts.ProgressEvery).
		Msg("extract: module wired")

	return &Module{deps: deps, opts: opts, ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "extract" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the options the module was built with
func (m *Module) Options() Options { return m.opts }

// Package modkit provides module wiring and core deps
package modkit

import (
	"dumpx/internal/platform/config"
	"dumpx/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
}

// Logger returns Log or the root logger when unset
func (d Deps) Logger() *logger.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logger.Get()
}

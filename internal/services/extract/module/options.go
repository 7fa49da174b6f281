package module

import (
	"strings"
	"time"

	"dumpx/internal/core/render"
	"dumpx/internal/platform/config"
)

// Options holds configuration options for the extract service
type Options struct {
	RowElement    string
	ProgressEvery int
	Format        string   // checked when a scan starts, so a bad value is a config error rather than a panic
	Fields        []string // flat attribute subset when the request names none
	TopicPrefix   string
	Indent        bool
	Compact       bool
	HTTPTimeout   time.Duration
	ScanTimeout   time.Duration
	WriteTimeout  time.Duration
}

// FromConfig reads the extract options from config with DUMPX_EXTRACT_ prefix
func FromConfig(cfg config.Conf) Options {
	ex := cfg.Prefix("DUMPX_EXTRACT_")
	return Options{
		RowElement:    ex.MayString("ROW_ELEMENT", "row"),
		ProgressEvery: ex.MayInt("PROGRESS_EVERY", 5000),
		Format:        strings.ToLower(ex.MayString("FORMAT", render.FormatTopics)),
		Fields:        ex.MayCSV("FIELDS", nil),
		TopicPrefix:   ex.MayString("TOPIC_PREFIX", "A"),
		Indent:        ex.MayBool("INDENT", true),
		Compact:       ex.MayBool("COMPACT", false),
		HTTPTimeout:   ex.MayDuration("HTTP_TIMEOUT", 0), // 0 == no client timeout
		ScanTimeout:   ex.MayDuration("SCAN_TIMEOUT", 0),
		WriteTimeout:  ex.MayDuration("WRITE_TIMEOUT", 0),
	}
}

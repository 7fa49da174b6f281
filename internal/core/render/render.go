// Package render serializes accepted records into an output document.
// Renderers are pure: they never filter or truncate.
package render

import (
	"encoding/xml"
	"io"
	"strings"

	"dumpx/internal/core/post"
	perr "dumpx/internal/platform/errors"
)

// Format names accepted by New
const (
	FormatTopics = "topics"
	FormatFlat   = "flat"
)

// Renderer writes one complete document for recs
type Renderer interface {
	Name() string
	Render(w io.Writer, recs []*post.Record) error
}

// Options tune the concrete renderers; zero values fall back to defaults
type Options struct {
	Indent  bool
	Prefix  string   // topics number prefix, default "A"
	Fields  []string // flat attribute subset, default all
	Compact bool     // topics: collapse whitespace runs in Title and Body
}

// New returns the renderer for format
// A field subset only makes sense for flat output; asking for one with topics is a config error
func New(format string, o Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTopics:
		if len(o.Fields) > 0 {
			return nil, perr.WithField(perr.Configf("fields %v apply to the flat format only", o.Fields), "fields")
		}
		return &Topics{Prefix: o.Prefix, Indent: o.Indent, Compact: o.Compact}, nil
	case FormatFlat:
		return &Flat{Fields: o.Fields, Indent: o.Indent}, nil
	default:
		return nil, perr.WithField(perr.Configf("unknown output format %q", format), "format")
	}
}

// DefaultPath is the output file used when none is given
func DefaultPath(format string) string {
	if strings.EqualFold(format, FormatFlat) {
		return "extracted_posts.xml"
	}
	return "extracted_topics.xml"
}

// encoder writes the XML declaration and returns a configured encoder
func encoder(w io.Writer, indent bool) (*xml.Encoder, error) {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return nil, err
	}
	enc := xml.NewEncoder(w)
	if indent {
		enc.Indent("", "  ")
	}
	return enc, nil
}

// finish flushes enc and terminates the document with a newline
func finish(w io.Writer, enc *xml.Encoder) error {
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func start(name string, attrs ...xml.Attr) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
}

// textElement writes <name>text</name>
func textElement(enc *xml.Encoder, name, text string) error {
	s := start(name)
	if err := enc.EncodeToken(s); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(s.End())
}

func outputErr(err error, format string) error {
	return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeOutput, "render %s", format), "render."+format)
}

package render

import (
	"encoding/xml"
	"io"

	"dumpx/internal/core/normalize"
	"dumpx/internal/core/post"
)

// Flat mirrors input rows: <posts><row Id=".." .../></posts>
type Flat struct {
	Fields []string
	Indent bool
}

// Name implements Renderer
func (f *Flat) Name() string { return FormatFlat }

// Render implements Renderer
// Attributes keep input names and order; with Fields set only those appear, in Fields order
func (f *Flat) Render(w io.Writer, recs []*post.Record) error {
	enc, err := encoder(w, f.Indent)
	if err != nil {
		return outputErr(err, FormatFlat)
	}

	root := start("posts")
	if err := enc.EncodeToken(root); err != nil {
		return outputErr(err, FormatFlat)
	}
	for _, r := range recs {
		row := start("row", f.attrs(r)...)
		if err := enc.EncodeToken(row); err != nil {
			return outputErr(err, FormatFlat)
		}
		if err := enc.EncodeToken(row.End()); err != nil {
			return outputErr(err, FormatFlat)
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return outputErr(err, FormatFlat)
	}
	if err := finish(w, enc); err != nil {
		return outputErr(err, FormatFlat)
	}
	return nil
}

func (f *Flat) attrs(r *post.Record) []xml.Attr {
	if len(f.Fields) == 0 {
		out := make([]xml.Attr, 0, len(r.Attrs))
		for _, a := range r.Attrs {
			out = append(out, attr(a.Name, a.Value))
		}
		return out
	}
	out := make([]xml.Attr, 0, len(f.Fields))
	for _, name := range f.Fields {
		if v, ok := r.Get(name); ok {
			out = append(out, attr(name, v))
		}
	}
	return out
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: normalize.XMLText(value)}
}

package stackdump

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	perr "dumpx/internal/platform/errors"
	"dumpx/internal/platform/logger"
	pstrings "dumpx/internal/platform/strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/ianaindex"
)

const (
	sniffLen     = 6
	sampleRawMax = 2048 // max bytes of the sample row logged at debug
)

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicBzip2 = []byte("BZh")
	magic7z    = []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}
)

// Option configures a Reader
type Option func(*Reader)

// WithElement sets the record element name; empty keeps DefaultElement
func WithElement(name string) Option {
	return func(rd *Reader) {
		if name = strings.TrimSpace(name); name != "" {
			rd.element = name
		}
	}
}

// Reader pulls rows one at a time from an XML dump
// It is single-use and not safe for concurrent calls
type Reader struct {
	src     io.ReadCloser
	dz      io.Closer // decompressor, nil for plain input
	xd      *xml.Decoder
	element string

	err      error
	sawRoot  bool
	closed   bool
	rows     int
	elements int
	sampled  bool // logs exactly one sample row per input
}

// NewReader sniffs the compression of rc and prepares a decoder over it
// rc is owned by the Reader from here on, including on error
func NewReader(rc io.ReadCloser, opts ...Option) (*Reader, error) {
	rd := &Reader{src: rc, element: DefaultElement}
	for _, o := range opts {
		o(rd)
	}

	br := bufio.NewReaderSize(rc, 256*1024)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		_ = rc.Close()
		return nil, perr.FromStream(err, "stackdump.sniff")
	}

	var in io.Reader = br
	switch {
	case bytes.HasPrefix(head, magicGzip):
		gz, err := gzip.NewReader(br)
		if err != nil {
			_ = rc.Close()
			return nil, perr.Wrap(err, perr.ErrorCodeStream, "gzip header unreadable")
		}
		in, rd.dz = gz, gz
	case bytes.HasPrefix(head, magicZstd):
		zd, err := zstd.NewReader(br)
		if err != nil {
			_ = rc.Close()
			return nil, perr.Wrap(err, perr.ErrorCodeStream, "zstd header unreadable")
		}
		zrc := zd.IOReadCloser()
		in, rd.dz = zrc, zrc
	case bytes.HasPrefix(head, magicBzip2):
		in = bzip2.NewReader(br)
	case bytes.HasPrefix(head, magic7z):
		_ = rc.Close()
		return nil, perr.Streamf("7z archives cannot be streamed; extract the xml first")
	}

	rd.xd = xml.NewDecoder(in)
	rd.xd.CharsetReader = charsetReader
	return rd, nil
}

// charsetReader handles dumps declaring a non UTF-8 encoding
func charsetReader(label string, in io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, perr.Streamf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(in), nil
}

// Next returns the next row; io.EOF once the document is complete
// ctx is checked before every token so a canceled scan stops within one element
func (rd *Reader) Next(ctx context.Context) (Row, error) {
	if rd.err != nil {
		return Row{}, rd.err
	}
	if rd.closed {
		rd.err = perr.Streamf("reader closed")
		return Row{}, rd.err
	}
	for {
		if err := ctx.Err(); err != nil {
			return Row{}, perr.FromStream(err, "stackdump.next")
		}
		tok, err := rd.xd.Token()
		if errors.Is(err, io.EOF) {
			if !rd.sawRoot {
				rd.err = perr.WithOp(perr.Streamf("empty document"), "stackdump.next")
				return Row{}, rd.err
			}
			rd.err = io.EOF
			return Row{}, io.EOF
		}
		if err != nil {
			rd.err = perr.FromStream(err, "stackdump.next")
			return Row{}, rd.err
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		rd.sawRoot = true
		rd.elements++
		if se.Name.Local != rd.element {
			continue
		}

		line, _ := rd.xd.InputPos()
		row := Row{
			Attrs:  make([]Attr, len(se.Attr)),
			Line:   line,
			Offset: rd.xd.InputOffset(),
		}
		for i, a := range se.Attr {
			row.Attrs[i] = Attr{Name: a.Name.Local, Value: a.Value}
		}
		// rows are flat; anything nested is not part of the record
		if err := rd.xd.Skip(); err != nil {
			rd.err = perr.FromStream(err, "stackdump.skip")
			return Row{}, rd.err
		}
		rd.rows++

		if !rd.sampled {
			rd.sampled = true
			logger.Named("stackdump").Debug().
				Int("line", line).
				Int("attrs", len(row.Attrs)).
				Str("sample", sample(row, sampleRawMax)).
				Msg("stackdump: sample row")
		}
		return row, nil
	}
}

// Close releases the decompressor then the underlying input; safe to call twice
func (rd *Reader) Close() error {
	if rd.closed {
		return nil
	}
	rd.closed = true
	var first error
	if rd.dz != nil {
		if err := rd.dz.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			first = err
		}
	}
	if rd.src != nil {
		if err := rd.src.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stats returns rows matched so far and decompressed bytes consumed by the decoder
func (rd *Reader) Stats() (rows int, consumed int64) {
	return rd.rows, rd.xd.InputOffset()
}

// Elements is the number of start elements seen, rows included
func (rd *Reader) Elements() int { return rd.elements }

// sample renders a row as name="value" pairs, cut to at most max bytes
func sample(r Row, max int) string {
	var b strings.Builder
	for i, a := range r.Attrs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	return pstrings.FirstN(b.String(), max)
}

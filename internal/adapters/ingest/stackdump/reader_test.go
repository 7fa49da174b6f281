package stackdump

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	perr "dumpx/internal/platform/errors"
	"dumpx/internal/platform/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackCloser struct {
	io.Reader
	closed int
}

func (t *trackCloser) Close() error { t.closed++; return nil }

func newReader(t *testing.T, doc string, opts ...Option) (*Reader, *trackCloser) {
	t.Helper()
	src := &trackCloser{Reader: strings.NewReader(doc)}
	rd, err := NewReader(src, opts...)
	require.NoError(t, err)
	return rd, src
}

func drain(t *testing.T, rd *Reader) ([]Row, error) {
	t.Helper()
	var out []Row
	for {
		row, err := rd.Next(context.Background())
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
}

func sampleDump() string {
	return testkit.Dump(
		testkit.Row("Id", "1", "PostTypeId", "1", "Score", "5", "Title", "a &lt; b &amp; c"),
		testkit.Row("Id", "2", "PostTypeId", "2", "Score", "7"),
		testkit.Row("Id", "3", "PostTypeId", "1", "Score", "9", "Tags", "&lt;calculus&gt;"),
	)
}

func TestReader_RowsInOrder(t *testing.T) {
	rd, src := newReader(t, sampleDump())

	rows, err := drain(t, rd)
	require.ErrorIs(t, err, io.EOF)
	require.Len(t, rows, 3)

	for i, want := range []string{"1", "2", "3"} {
		id, ok := rows[i].Get("Id")
		assert.True(t, ok)
		assert.Equal(t, want, id)
	}
	title, _ := rows[0].Get("Title")
	assert.Equal(t, "a < b & c", title)
	tags, _ := rows[2].Get("Tags")
	assert.Equal(t, "<calculus>", tags)
	assert.Equal(t, "Id", rows[0].Attrs[0].Name, "attribute order is preserved")
	assert.Equal(t, 3, rows[0].Line)

	n, consumed := rd.Stats()
	assert.Equal(t, 3, n)
	assert.Positive(t, consumed)
	assert.Equal(t, 4, rd.Elements(), "root plus three rows")

	// EOF is sticky
	_, err = rd.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, rd.Close())
	require.NoError(t, rd.Close())
	assert.Equal(t, 1, src.closed)
}

func TestReader_CustomElementAndNestedContent(t *testing.T) {
	doc := `<?xml version="1.0"?>
<comments>
  <meta generated="x"/>
  <comment Id="10" Text="hi"><extra><comment Id="nested"/></extra></comment>
  <comment Id="11" Text="there"/>
</comments>`
	rd, _ := newReader(t, doc, WithElement("comment"))
	rows, err := drain(t, rd)
	require.ErrorIs(t, err, io.EOF)
	require.Len(t, rows, 2)
	id, _ := rows[1].Get("Id")
	assert.Equal(t, "11", id)
}

func TestReader_EmptyElementOptionKeepsDefault(t *testing.T) {
	rd, _ := newReader(t, sampleDump(), WithElement("  "))
	rows, err := drain(t, rd)
	require.ErrorIs(t, err, io.EOF)
	assert.Len(t, rows, 3)
}

func TestReader_FatalStructure(t *testing.T) {
	cases := map[string]string{
		"truncated":    `<?xml version="1.0"?><posts><row Id="1"/><row Id="2"`,
		"unclosed":     `<posts><row Id="1"/>`,
		"mismatched":   `<posts><row Id="1"></posts>`,
		"empty":        ``,
		"only prolog":  `<?xml version="1.0"?>`,
		"bad attr":     `<posts><row Id=1/></posts>`,
		"unknown ents": `<posts><row Id="&nbsp;"/></posts>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			rd, _ := newReader(t, doc)
			_, err := drain(t, rd)
			require.Error(t, err)
			assert.False(t, errors.Is(err, io.EOF))
			assert.True(t, perr.IsCode(err, perr.ErrorCodeStream), "got %v", err)
		})
	}
}

func TestReader_RowsBeforeFatalErrorAreYielded(t *testing.T) {
	rd, _ := newReader(t, `<posts><row Id="1"/><row Id="2"/><row Id="3" </posts>`)
	rows, err := drain(t, rd)
	require.Error(t, err)
	assert.Len(t, rows, 2)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeStream))
}

func TestReader_Canceled(t *testing.T) {
	rd, _ := newReader(t, sampleDump())
	ctx, cancel := context.WithCancel(context.Background())

	_, err := rd.Next(ctx)
	require.NoError(t, err)

	cancel()
	_, err = rd.Next(ctx)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeCanceled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReader_NextAfterClose(t *testing.T) {
	rd, _ := newReader(t, sampleDump())
	require.NoError(t, rd.Close())
	_, err := rd.Next(context.Background())
	assert.True(t, perr.IsCode(err, perr.ErrorCodeStream))
}

func TestReader_Compressed(t *testing.T) {
	for name, c := range map[string]testkit.Compression{"gz": testkit.Gzip, "zst": testkit.Zstd, "plain": testkit.Plain} {
		t.Run(name, func(t *testing.T) {
			path := testkit.WriteDump(t, "Posts.xml."+name, sampleDump(), c)
			rd, err := OpenReader(context.Background(), path, nil)
			require.NoError(t, err)
			defer rd.Close()

			rows, err := drain(t, rd)
			require.ErrorIs(t, err, io.EOF)
			assert.Len(t, rows, 3)
		})
	}
}

func TestReader_BadBzip2IsStreamError(t *testing.T) {
	rd, _ := newReader(t, "BZh9 definitely not bzip2 data")
	_, err := drain(t, rd)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeStream))
}

func TestNewReader_Rejects7z(t *testing.T) {
	src := &trackCloser{Reader: bytes.NewReader([]byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c, 0, 4})}
	_, err := NewReader(src)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeStream))
	assert.Equal(t, 1, src.closed)
}

func TestNewReader_BadGzipHeaderClosesInput(t *testing.T) {
	src := &trackCloser{Reader: bytes.NewReader([]byte{0x1f, 0x8b, 0xff, 0xff, 0xff, 0xff})}
	_, err := NewReader(src)
	require.Error(t, err)
	assert.Equal(t, 1, src.closed)
}

func TestReader_Latin1Declared(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><posts><row Id=\"1\" Title=\"caf\xe9\"/></posts>"
	rd, _ := newReader(t, doc)
	rows, err := drain(t, rd)
	require.ErrorIs(t, err, io.EOF)
	require.Len(t, rows, 1)
	title, _ := rows[0].Get("Title")
	assert.Equal(t, "café", title)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "", nil)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeConfig))

	_, err = Open(ctx, t.TempDir()+"/missing.xml", nil)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))

	_, err = Open(ctx, t.TempDir(), nil)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeConfig))

	rc, err := Open(ctx, Stdin, nil)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	_, err = os.Stdin.Stat()
	assert.NoError(t, err, "stdin stays open")
}

func TestOpen_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Posts.xml":
			_, _ = io.WriteString(w, sampleDump())
		case "/broken.xml":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := &HTTPFetcher{Client: srv.Client()}
	ctx := context.Background()

	rd, err := OpenReader(ctx, srv.URL+"/Posts.xml", f)
	require.NoError(t, err)
	rows, err := drain(t, rd)
	require.ErrorIs(t, err, io.EOF)
	assert.Len(t, rows, 3)
	require.NoError(t, rd.Close())

	_, err = Open(ctx, srv.URL+"/nope.xml", f)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))

	_, err = Open(ctx, srv.URL+"/broken.xml", f)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeStream))
	testkit.MustContain(t, err.Error(), "502")
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://archive.org/x.7z"))
	assert.True(t, IsRemote("HTTP://x"))
	assert.False(t, IsRemote("./Posts.xml"))
	assert.False(t, IsRemote("-"))
}

func TestSampleTruncates(t *testing.T) {
	r := Row{Attrs: []Attr{{Name: "Body", Value: strings.Repeat("é", 10)}}}
	s := sample(r, 9)
	assert.True(t, strings.HasSuffix(s, "..."))
	assert.LessOrEqual(t, len(s), 12)
}

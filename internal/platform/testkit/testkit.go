// Package testkit provides testing helpers
package testkit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustContain asserts that haystack contains needle. If not, writes haystack to testkit_output.txt for debugging
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		tmpfile := filepath.Join(t.TempDir(), "testkit_output.txt")
		_ = os.WriteFile(tmpfile, []byte(haystack), 0o600)
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, tmpfile)
	}
}

// Row is a fixture helper producing one self-closing dump row from attribute pairs
// Values are written verbatim, callers escape them when a test needs entities
func Row(kv ...string) string {
	var b strings.Builder
	b.WriteString("  <row")
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %s=\"%s\"", kv[i], kv[i+1])
	}
	b.WriteString(" />\n")
	return b.String()
}

// Dump wraps rows in a posts document with an XML declaration
func Dump(rows ...string) string {
	return "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<posts>\n" + strings.Join(rows, "") + "</posts>\n"
}

// Compression selects the fixture encoding for WriteDump
type Compression int

// Supported fixture encodings
const (
	Plain Compression = iota
	Gzip
	Zstd
)

// WriteDump writes doc under a temp dir using the given encoding and returns its path
func WriteDump(t *testing.T, name, doc string, c Compression) string {
	t.Helper()
	var buf bytes.Buffer
	switch c {
	case Gzip:
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write([]byte(doc)); err != nil {
			t.Fatalf("gzip write: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}
	case Zstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		if _, err := zw.Write([]byte(doc)); err != nil {
			t.Fatalf("zstd write: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("zstd close: %v", err)
		}
	default:
		buf.WriteString(doc)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

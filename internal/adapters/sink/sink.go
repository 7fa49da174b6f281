// Package sink writes rendered documents either to a file, atomically, or to stdout
//
// A document becomes visible only on Commit; Abort leaves the destination untouched.
package sink

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"

	perr "dumpx/internal/platform/errors"
)

// Stdout is the destination that writes to standard output
const Stdout = "-"

// Output is a pending document
type Output interface {
	io.Writer
	// Commit publishes what was written
	Commit() error
	// Abort discards what was written; safe after Commit
	Abort() error
	// Dest names where the document goes
	Dest() string
}

// seams for tests
var (
	osRename = os.Rename
	osStdout io.Writer = os.Stdout
)

// Open returns an Output for dest; "-" buffers then writes to stdout on Commit
func Open(dest string) (Output, error) {
	switch dest {
	case "":
		return nil, perr.WithField(perr.Outputf("no output destination"), "output")
	case Stdout:
		return &stdoutOutput{}, nil
	}
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		return nil, perr.WithField(perr.Outputf("%s is a directory", dest), "output")
	}
	return createFile(dest)
}

// fileOutput writes to dest.part next to dest and renames on Commit
type fileOutput struct {
	dest string
	tmp  string
	f    *os.File
	bw   *bufio.Writer
	done bool
}

func createFile(dest string) (*fileOutput, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeOutput, "create %s", dir), "output")
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeOutput, "create %s", dest), "output")
	}
	return &fileOutput{dest: dest, tmp: f.Name(), f: f, bw: bufio.NewWriterSize(f, 256*1024)}, nil
}

func (o *fileOutput) Write(p []byte) (int, error) {
	if o.done {
		return 0, perr.Outputf("write to %s after commit or abort", o.dest)
	}
	return o.bw.Write(p)
}

func (o *fileOutput) Dest() string { return o.dest }

func (o *fileOutput) Commit() error {
	if o.done {
		return nil
	}
	o.done = true
	werr := o.bw.Flush()
	if werr == nil {
		werr = o.f.Sync()
	}
	cerr := o.f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		_ = os.Chmod(o.tmp, 0o644)
		werr = osRename(o.tmp, o.dest)
	}
	if werr != nil {
		_ = os.Remove(o.tmp)
		return perr.WithField(perr.Wrapf(werr, perr.ErrorCodeOutput, "write %s", o.dest), "output")
	}
	return nil
}

func (o *fileOutput) Abort() error {
	if o.done {
		return nil
	}
	o.done = true
	_ = o.f.Close()
	if err := os.Remove(o.tmp); err != nil && !os.IsNotExist(err) {
		return perr.Wrapf(err, perr.ErrorCodeOutput, "remove %s", o.tmp)
	}
	return nil
}

// stdoutOutput holds the document until Commit so a failed render prints nothing
type stdoutOutput struct {
	buf  bytes.Buffer
	done bool
}

func (o *stdoutOutput) Write(p []byte) (int, error) {
	if o.done {
		return 0, perr.Outputf("write to stdout after commit or abort")
	}
	return o.buf.Write(p)
}

func (o *stdoutOutput) Dest() string { return Stdout }

func (o *stdoutOutput) Commit() error {
	if o.done {
		return nil
	}
	o.done = true
	if _, err := o.buf.WriteTo(osStdout); err != nil {
		return perr.Wrap(err, perr.ErrorCodeOutput, "write stdout")
	}
	return nil
}

func (o *stdoutOutput) Abort() error {
	o.done = true
	o.buf.Reset()
	return nil
}

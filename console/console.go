// Package console provides the sinks the check runner writes its lines to.
package console

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns w with a Close method that does nothing.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

// Stdout returns the process standard output. Closing it is a no-op.
func Stdout() io.WriteCloser {
	return NopCloser(os.Stdout)
}

// Open opens a serial device node or a log file for appending. Regular files
// are created when missing.
func Open(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open console %s", path)
	}
	return f, nil
}

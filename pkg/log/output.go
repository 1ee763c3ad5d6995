package log

import (
	"io"
	"os"
	"sync"
)

// Output defines the interface for log outputs.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// WriterOutput writes formatted entries to an io.Writer, one per line.
type WriterOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterOutput wraps an arbitrary writer as an Output.
func NewWriterOutput(w io.Writer) *WriterOutput { return &WriterOutput{w: w} }

// NewConsoleOutput returns an Output writing to stderr.
func NewConsoleOutput() *WriterOutput { return &WriterOutput{w: os.Stderr} }

// Write implements Output.
func (o *WriterOutput) Write(_ *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := o.w.Write(formatted); err != nil {
		return err
	}
	_, err := o.w.Write([]byte{'\n'})
	return err
}

// Close implements Output. The underlying writer is not closed; console
// outputs share process-wide file descriptors.
func (o *WriterOutput) Close() error { return nil }

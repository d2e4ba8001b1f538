// Package utils holds small helpers shared by commands.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter passes writes through to its target unless held. While held,
// writes are buffered in memory and replayed in order by Release. It lets
// commands print to the terminal without corrupting a running full-screen UI.
// Safe for concurrent use.
type DeferredWriter struct {
	mu     sync.Mutex
	target io.Writer
	held   bool
	buf    bytes.Buffer
}

// NewDeferredWriter returns a writer that forwards to target.
func NewDeferredWriter(target io.Writer) *DeferredWriter {
	return &DeferredWriter{target: target}
}

// Write forwards p to the target, or buffers it while held.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.held {
		return d.buf.Write(p)
	}
	return d.target.Write(p)
}

// Hold starts buffering writes.
func (d *DeferredWriter) Hold() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.held = true
}

// Release stops buffering and flushes everything written while held.
func (d *DeferredWriter) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.held = false
	if d.buf.Len() == 0 {
		return nil
	}

	_, err := d.buf.WriteTo(d.target)
	return err
}

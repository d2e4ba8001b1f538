package utils

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredWriter_PassThrough(t *testing.T) {
	var out bytes.Buffer
	d := NewDeferredWriter(&out)

	n, err := d.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", out.String())
}

func TestDeferredWriter_HoldAndRelease(t *testing.T) {
	var out bytes.Buffer
	d := NewDeferredWriter(&out)

	d.Hold()
	_, _ = d.Write([]byte("warning: "))
	_, _ = d.Write([]byte("interval too short\n"))
	assert.Empty(t, out.String(), "nothing reaches the target while held")

	require.NoError(t, d.Release())
	assert.Equal(t, "warning: interval too short\n", out.String())

	_, _ = d.Write([]byte("after"))
	assert.Equal(t, "warning: interval too short\nafter", out.String())
}

func TestDeferredWriter_ReleaseEmpty(t *testing.T) {
	var out bytes.Buffer
	d := NewDeferredWriter(&out)

	d.Hold()
	require.NoError(t, d.Release())
	assert.Empty(t, out.String())
}

func TestDeferredWriter_ConcurrentWrites(t *testing.T) {
	var out bytes.Buffer
	d := NewDeferredWriter(&out)
	d.Hold()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = fmt.Fprintf(d, "%02d;", i)
		}()
	}
	wg.Wait()

	require.NoError(t, d.Release())
	assert.Len(t, out.String(), 50*3)
}

package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDraws(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(context.Background(), &buf, "Rendering")
	s.Start()
	time.Sleep(300 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Rendering") {
		t.Errorf("spinner output %q missing message", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Error("spinner did not clear its line on stop")
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf syncBuffer
	s := newSpinner(ctx, &buf, "Rendering")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after context cancel")
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(context.Background(), &buf, "x")
	s.Start()
	s.Stop()
	s.Stop()
}

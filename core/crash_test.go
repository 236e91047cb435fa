package core

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScreen struct {
	finis int
}

func (f *fakeScreen) Fini() { f.finis++ }

// capture swaps the crash output and exit for the test duration
func capture(t *testing.T) (*bytes.Buffer, chan int) {
	t.Helper()
	var buf bytes.Buffer
	codes := make(chan int, 1)
	var mu sync.Mutex

	prevOut, prevTerm, prevExit := crashOut, crashTerm, crashExit
	crashOut = &lockedWriter{mu: &mu, buf: &buf}
	crashTerm = &lockedWriter{mu: &mu, buf: &bytes.Buffer{}}
	crashExit = func(code int) { codes <- code }
	t.Cleanup(func() {
		crashOut, crashTerm, crashExit = prevOut, prevTerm, prevExit
		RegisterTerminal(nil)
	})
	return &buf, codes
}

type lockedWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestHandleCrashRestoresTerminal(t *testing.T) {
	buf, codes := capture(t)
	screen := &fakeScreen{}
	RegisterTerminal(screen)

	HandleCrash("boom")

	assert.Equal(t, 1, <-codes)
	assert.Equal(t, 1, screen.finis)
	assert.Contains(t, buf.String(), "CRASH DETECTED: boom")
	assert.Contains(t, buf.String(), "Stack Trace:")

	// Screen is finalized at most once
	HandleCrash("again")
	<-codes
	assert.Equal(t, 1, screen.finis)
}

func TestHandleCrashNilIsNoop(t *testing.T) {
	_, codes := capture(t)
	HandleCrash(nil)
	assert.Empty(t, codes)
}

func TestGoRecoversPanics(t *testing.T) {
	buf, codes := capture(t)
	RegisterTerminal(&fakeScreen{})

	Go(func() { panic("worker failed") })

	select {
	case code := <-codes:
		assert.Equal(t, 1, code)
	case <-time.After(2 * time.Second):
		t.Fatal("crash handler not invoked")
	}
	assert.Contains(t, buf.String(), "worker failed")
}

func TestEmergencyReset(t *testing.T) {
	var buf bytes.Buffer
	EmergencyReset(&buf)
	require.Contains(t, buf.String(), "\x1b[?25h")
	assert.Contains(t, buf.String(), "\x1b[?1049l")
}

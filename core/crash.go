package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

// Finisher restores a terminal; satisfied by tcell.Screen
type Finisher interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finisher

	// Replaced in tests
	crashOut  io.Writer = os.Stderr
	crashTerm io.Writer = os.Stdout
	crashExit           = os.Exit
)

// Reset sequences for when no screen is registered: cursor on, leave alt screen, SGR reset, autowrap on
const emergencyReset = "\x1b[?1000l\x1b[?1002l\x1b[?1006l\x1b[?25h\x1b[?1049l\x1b[0m\x1b[?7h"

// RegisterTerminal sets the screen finalized on crash; nil unregisters
func RegisterTerminal(t Finisher) {
	crashMu.Lock()
	crashTerminal = t
	crashMu.Unlock()
}

// EmergencyReset writes terminal restore sequences to w
func EmergencyReset(w io.Writer) {
	_, _ = io.WriteString(w, emergencyReset)
	if f, ok := w.(*os.File); ok {
		_ = f.Sync()
	}
}

// HandleCrash restores the terminal, prints r with the stack trace and exits 1
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	t := crashTerminal
	crashTerminal = nil
	crashMu.Unlock()

	if t != nil {
		t.Fini()
	} else {
		EmergencyReset(crashTerm)
	}

	fmt.Fprintf(crashOut, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\n%s\n", debug.Stack())

	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

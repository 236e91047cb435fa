package main

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

const (
	logDir      = "logs"
	logFileName = "vi-racer.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging opens the debug log, rotating an oversized previous file
// Without debug every log write is discarded so nothing reaches the terminal
func setupLogging(debug bool) *os.File {
	if !debug {
		stdlog.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		stdlog.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("vi-racer-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		stdlog.SetOutput(io.Discard)
		return nil
	}
	stdlog.SetOutput(f)
	stdlog.SetFlags(stdlog.LstdFlags | stdlog.Lmicroseconds)
	return f
}

// newLogger returns the structured logger writing to f, or a discarding one when f is nil
func newLogger(f *os.File) *log.Logger {
	if f == nil {
		return log.New(io.Discard)
	}
	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           log.DebugLevel,
		Prefix:          "vi-racer",
	})
}

// Package logger adapts the standard logger to the diagnostics interface of the coder.
package logger

import (
	"io"
	"log"
)

type Logger interface {
	Infof(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type stdLogger struct {
	l *log.Logger
}

// New returns a Logger writing to the standard logger.
func New() Logger { return &stdLogger{l: log.Default()} }

// NewWriter returns a Logger writing to w with the flags of the standard logger.
func NewWriter(w io.Writer) Logger { return &stdLogger{l: log.New(w, "", log.Flags())} }

func (s *stdLogger) Infof(format string, v ...interface{})  { s.l.Printf("[INFO] "+format, v...) }
func (s *stdLogger) Errorf(format string, v ...interface{}) { s.l.Printf("[ERROR] "+format, v...) }

package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Logger provides leveled console logging throughout the application.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger

	debugEnabled bool
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr)
}

// NewLoggerTo creates a Logger writing info/warn/debug to out and errors to errOut.
func NewLoggerTo(out, errOut io.Writer) *Logger {
	flags := 0
	return &Logger{
		info:  log.New(out, "", flags),
		warn:  log.New(out, "", flags),
		err:   log.New(errOut, "", flags),
		debug: log.New(out, "", flags),
	}
}

// SetLevel enables debug output for "debug"; any other level leaves it off.
func (l *Logger) SetLevel(level string) {
	l.debugEnabled = strings.EqualFold(strings.TrimSpace(level), "debug")
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Print(fmt.Sprintf("[%s] \033[32mINFO\033[0m  ", l.timestamp()) + fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Print(fmt.Sprintf("[%s] \033[33mWARN\033[0m  ", l.timestamp()) + fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Print(fmt.Sprintf("[%s] \033[31mERROR\033[0m ", l.timestamp()) + fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debugEnabled {
		return
	}
	l.debug.Print(fmt.Sprintf("[%s] \033[36mDEBUG\033[0m ", l.timestamp()) + fmt.Sprintf(format, args...))
}

// Package logging provides the application logger: plain log output,
// mirrored to Rollbar when a token is configured.
package logging

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/rollbar/rollbar-go"
)

// Options configures the Rollbar reporter. An empty Token disables it.
type Options struct {
	Token       string
	Environment string
	CodeVersion string
	ServerHost  string
	Debug       bool
}

// Logger writes leveled messages. Args after the message may include an
// error, a map[string]any of extras, or values that are only printed.
type Logger struct {
	std   *log.Logger
	rb    *rollbar.Client
	debug bool
}

// New returns a Logger writing to w.
func New(w io.Writer, opts Options) *Logger {
	l := &Logger{
		std:   log.New(w, "", log.LstdFlags),
		debug: opts.Debug,
	}
	if opts.Token != "" {
		host := opts.ServerHost
		if host == "" {
			host, _ = os.Hostname()
		}
		l.rb = rollbar.New(opts.Token, opts.Environment, opts.CodeVersion, host, "")
		l.rb.SetEnabled(true)
	}
	return l
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, Options{})
}

// Reporting reports whether messages are mirrored to Rollbar.
func (l *Logger) Reporting() bool {
	return l.rb != nil
}

// Close flushes pending reports.
func (l *Logger) Close() error {
	if l.rb == nil {
		return nil
	}
	return l.rb.Close()
}

// Debug prints only when debug output is enabled.
func (l *Logger) Debug(msg string, args ...any) {
	if !l.debug {
		return
	}
	l.print("DEBUG", msg, args)
}

func (l *Logger) Info(msg string, args ...any) {
	l.print("INFO", msg, args)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.report(rollbar.WARN, msg, args)
	l.print("WARN", msg, args)
}

func (l *Logger) Error(msg string, args ...any) {
	l.report(rollbar.ERR, msg, args)
	l.print("ERROR", msg, args)
}

// Fatal reports, prints and exits.
func (l *Logger) Fatal(msg string, args ...any) {
	l.report(rollbar.CRIT, msg, args)
	l.print("FATAL", msg, args)
	_ = l.Close()
	l.std.Fatal(msg)
}

func (l *Logger) print(level, msg string, args []any) {
	l.std.Printf("%s %s", level, msg)
	for _, arg := range args {
		l.std.Printf("  %+v", arg)
	}
}

func (l *Logger) report(level, msg string, args []any) {
	if l.rb == nil {
		return
	}
	var err error
	extras := map[string]any{}
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			if err == nil {
				err = v
			}
		case map[string]any:
			for k, x := range v {
				extras[k] = x
			}
		}
	}
	if err != nil {
		l.rb.ErrorWithExtras(level, errors.Join(errors.New(msg), err), extras)
		return
	}
	l.rb.MessageWithExtras(level, msg, extras)
}

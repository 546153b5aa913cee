// Package logging provides the leveled, colored logger used by mhkc-cli.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger writes [info] and [debug] lines to Out when enabled and
// [warn] and [error] lines to Err unconditionally.
type Logger struct {
	Verbose bool
	Debug   bool
	Out     io.Writer
	Err     io.Writer
}

// New returns a Logger writing to out and errOut.
func New(verbose, debug bool, out, errOut io.Writer) Logger {
	return Logger{Verbose: verbose || debug, Debug: debug, Out: out, Err: errOut}
}

func (l Logger) out() io.Writer {
	if l.Out == nil {
		return os.Stderr
	}
	return l.Out
}

func (l Logger) err() io.Writer {
	if l.Err == nil {
		return os.Stderr
	}
	return l.Err
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose {
		fmt.Fprintf(l.out(), prefix("[info] ", color.FgGreen)+msg+"\n", args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		fmt.Fprintf(l.out(), prefix("[debug] ", color.FgCyan)+msg+"\n", args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	fmt.Fprintf(l.err(), prefix("[warn] ", color.FgYellow)+msg+"\n", args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	fmt.Fprintf(l.err(), prefix("[error] ", color.FgRed)+msg+"\n", args...)
}

// prefix colors a level tag unless color is disabled (NO_COLOR, dumb
// terminal or a non-TTY output, as detected by fatih/color).
func prefix(tag string, attr color.Attribute) string {
	if _, ok := os.LookupEnv("NO_COLOR"); ok || color.NoColor {
		return tag
	}
	return color.New(attr).Sprint(tag)
}

// ErrorfAndReturn logs the message at error level and returns it as an
// error, preserving any %w operands.
func (l Logger) ErrorfAndReturn(msg string, args ...any) error {
	err := fmt.Errorf(msg, args...)
	l.Errorf("%v", err)
	return err
}

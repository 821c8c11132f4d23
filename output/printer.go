// Package output provides terminal rendering for newsdesk: article
// tables, machine-readable JSON, and colored status messages.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer handles formatted output to the terminal.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// ResolveColors determines whether to use colors from the environment.
func ResolveColors() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// NewPrinter creates a printer writing to stdout/stderr.
func NewPrinter(useColors bool) *Printer {
	return &Printer{
		out:       os.Stdout,
		err:       os.Stderr,
		useColors: useColors,
	}
}

// NewPrinterWithWriters creates a printer with custom writers.
func NewPrinterWithWriters(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// JSON writes v to stdout as indented JSON.
func (p *Printer) JSON(v interface{}) error {
	encoder := json.NewEncoder(p.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Printf writes a plain formatted line to stdout.
func (p *Printer) Printf(format string, v ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", v...)
}

// Successf writes a green status line to stdout.
func (p *Printer) Successf(format string, v ...interface{}) {
	p.colored(p.out, color.FgGreen, format, v...)
}

// Warnf writes a yellow notice to stderr.
func (p *Printer) Warnf(format string, v ...interface{}) {
	p.colored(p.err, color.FgYellow, format, v...)
}

// Errorf writes a red error line to stderr.
func (p *Printer) Errorf(format string, v ...interface{}) {
	p.colored(p.err, color.FgRed, format, v...)
}

func (p *Printer) colored(w io.Writer, c color.Attribute, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if p.useColors {
		msg = color.New(c).Sprint(msg)
	}
	fmt.Fprintln(w, msg)
}

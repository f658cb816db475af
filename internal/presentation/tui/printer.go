package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Printer writes CLI results, coloured when the writer is a terminal.
type Printer struct {
	w   io.Writer
	out *termenv.Output
}

// NewPrinter wraps w. Colour is enabled only for terminals.
func NewPrinter(w io.Writer) *Printer {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		profile = termenv.EnvColorProfile()
	}
	return &Printer{w: w, out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// Success prints a green status line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.out.String("✔ "+fmt.Sprintf(format, args...)).Foreground(p.out.Color("#22c55e")))
}

// Failure prints a red status line.
func (p *Printer) Failure(format string, args ...any) {
	fmt.Fprintln(p.w, p.out.String("✘ "+fmt.Sprintf(format, args...)).Foreground(p.out.Color("#ef4444")))
}

// Tree prints v as indented JSON.
func (p *Printer) Tree(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(data))
	return err
}

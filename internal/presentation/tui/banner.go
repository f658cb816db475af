package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the formbind banner.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct{ text, color string }{
		{"   __                      _     _           _ ", "#818cf8"},
		{"  / _| ___  _ __ _ __ ___ | |__ (_)_ __   __| |", "#a78bfa"},
		{" | |_ / _ \\| '__| '_ ` _ \\| '_ \\| | '_ \\ / _` |", "#c084fc"},
		{" |  _| (_) | |  | | | | | | |_) | | | | | (_| |", "#e879f9"},
		{" |_|  \\___/|_|  |_| |_| |_|_.__/|_|_| |_|\\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintf(w, "  %s\n\n", out.String("v"+version).Faint())
}

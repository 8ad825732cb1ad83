package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the graft banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// A green gradient, top to bottom.
	rows := []struct{ text, color string }{
		{"                   __ _   ", "#86efac"},
		{"   __ _ _ __ __ _ / _| |_ ", "#4ade80"},
		{"  / _` | '__/ _` | |_| __|", "#22c55e"},
		{" | (_| | | | (_| |  _| |_ ", "#16a34a"},
		{"  \\__, |_|  \\__,_|_|  \\__|", "#15803d"},
		{"  |___/                   ", "#166534"},
	}

	fmt.Fprintln(w)
	for _, row := range rows {
		fmt.Fprintln(w, termenv.String(row.text).Foreground(p.Color(row.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// Status colors a short status word for terminal output.
func Status(ok bool, text string) string {
	p := termenv.ColorProfile()
	color := "#22c55e"
	if !ok {
		color = "#f97316"
	}
	return termenv.String(text).Foreground(p.Color(color)).String()
}

package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` _ __   __ _ _ __ _ __ __ _| |_ ___  _ __ `, "#818cf8"},
	{`| '_ \ / _' | '__| '__/ _' | __/ _ \| '__|`, "#a78bfa"},
	{`| | | | (_| | |  | | | (_| | || (_) | |   `, "#e879f9"},
	{`|_| |_|\__,_|_|  |_|  \__,_|\__\___/|_|   `, "#fb7185"},
}

// PrintBanner writes the Narrator banner and the story title to w.
// Colors degrade to plain text when w is not a terminal.
func PrintBanner(w io.Writer, version, title string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(fmt.Sprintf("  v%s", version)).Faint())
	if title != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, out.String("  "+title).Bold())
	}
	fmt.Fprintln(w)
}

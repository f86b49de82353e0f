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
	{` ____        _ _                  _    `, "#fde68a"},
	{`| __ )  __ _| | |_ __   __ _ _ __| | __`, "#fcd34d"},
	{`|  _ \ / _' | | | '_ \ / _' | '__| |/ /`, "#fbbf24"},
	{`| |_) | (_| | | | |_) | (_| | |  |   < `, "#f59e0b"},
	{`|____/ \__,_|_|_| .__/ \__,_|_|  |_|\_\`, "#d97706"},
	{`                |_|                    `, "#b45309"},
}

// PrintBanner writes the ballpark banner, colored when the terminal allows it.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}

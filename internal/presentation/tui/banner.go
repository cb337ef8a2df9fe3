package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown when the server starts.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Indigo to pink gradient, one color per line
	lines := []struct {
		text  string
		color string
	}{
		{"  __ _ _ __ _____      ____ _  __ _ ", "#818cf8"},
		{" / _` | '__/ _ \\ \\ /\\ / / _` |/ _` |", "#a78bfa"},
		{"| (_| | |  |  __/\\ V  V / (_| | (_| |", "#c084fc"},
		{" \\__, |_|   \\___| \\_/\\_/ \\__, |\\__, |", "#e879f9"},
		{" |___/                   |___/ |___/ ", "#f472b6"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}

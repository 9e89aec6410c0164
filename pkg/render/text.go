package render

import "strings"

// Measure returns the rendered width of a string.
type Measure func(string) int

// Wrap breaks text on spaces so each line fits width. A single word wider
// than width gets a line of its own.
func Wrap(text string, width int, measure Measure) []string {
	var lines []string
	line := ""
	for _, word := range strings.Split(text, " ") {
		if line != "" && measure(line+word) > width {
			lines = append(lines, strings.TrimSpace(line))
			line = ""
		}
		line += word + " "
	}
	if trimmed := strings.TrimSpace(line); trimmed != "" || len(lines) == 0 {
		lines = append(lines, trimmed)
	}
	return lines
}

// Cut drops trailing runes until text fits width.
func Cut(text string, width int, measure Measure) string {
	runes := []rune(text)
	for len(runes) > 0 && measure(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

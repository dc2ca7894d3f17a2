package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type measuredRune struct {
	r       rune
	width   int
	isSpace bool
}

// wrapText breaks text into lines no wider than width display cells.
// Lines break at the last space when there is one; text without spaces,
// such as Chinese advice, breaks between runes.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var out []string
	line := make([]measuredRune, 0, width)
	lineWidth := 0
	lastSpaceIdx := -1

	runes := []rune(text)
	for i := 0; i < len(runes); {
		item := measuredRune{r: runes[i], width: runewidth.RuneWidth(runes[i]), isSpace: runes[i] == ' '}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out = append(out, renderLine(line[:lastSpaceIdx]))
				line = append([]measuredRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out = append(out, renderLine(line))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	return append(out, renderLine(line))
}

func renderLine(line []measuredRune) string {
	var b strings.Builder
	for _, item := range line {
		b.WriteRune(item.r)
	}
	return b.String()
}

func lineWidthOf(line []measuredRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []measuredRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

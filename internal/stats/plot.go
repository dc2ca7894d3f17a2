package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var colorPalette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// Braille dot bits indexed by [column][row] within one 2x4 cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// canvas is a grid of braille cells addressed in dot coordinates, two dots
// wide and four dots tall per cell.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	c := &canvas{cells: make([][]uint8, height)}
	for y := range c.cells {
		c.cells[y] = make([]uint8, width)
	}
	return c
}

func (c *canvas) dots() (int, int) {
	if len(c.cells) == 0 {
		return 0, 0
	}
	return len(c.cells[0]) * 2, len(c.cells) * 4
}

func (c *canvas) set(x, y int) {
	w, h := c.dots()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.cells[y/4][x/2] |= brailleBits[x%2][y%4]
}

// line draws a Bresenham segment between two dots.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy && x0 != x1 {
			e += dy
			x0 += sx
		}
		if e2 <= dx && y0 != y1 {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) row(y int) string {
	var b strings.Builder
	for _, mask := range c.cells[y] {
		b.WriteRune(rune(0x2800 + int(mask)))
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PlotTrends renders one chart per trend, sized to totalWidth columns (the
// terminal width when zero).
func PlotTrends(w io.Writer, trends []Trend, totalWidth, height int, forceColor bool) error {
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	color := shouldUseColor(w, forceColor)
	for i, tr := range trends {
		code := ""
		if color {
			code = colorPalette[i%len(colorPalette)]
		}
		if err := plotTrend(w, tr, totalWidth, height, code); err != nil {
			return err
		}
	}
	return nil
}

func plotTrend(w io.Writer, tr Trend, totalWidth, height int, color string) error {
	if len(tr.Values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	lo, _ := Min(tr.Values)
	hi, _ := Max(tr.Values)
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}
	labels := []string{formatAxis(hi), formatAxis((hi + lo) / 2), formatAxis(lo)}
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}
	width := PlotWidthFor(totalWidth, labelWidth)

	c := newCanvas(width, height)
	values := bucket(tr.Values, width*2)
	dotW, dotH := c.dots()
	px, py := -1, -1
	for i, v := range values {
		x := 0
		if len(values) > 1 {
			x = i * (dotW - 1) / (len(values) - 1)
		}
		y := int(math.Round((hi - v) / (hi - lo) * float64(dotH-1)))
		if px < 0 {
			c.set(x, y)
		} else {
			c.line(px, py, x, y)
		}
		px, py = x, y
	}

	latest := tr.Values[len(tr.Values)-1]
	if _, err := fmt.Fprintf(w, "%s (%s): %d sessions, latest %s, mean %s\n",
		tr.Game.Title(), tr.Metric, len(tr.Values), formatAxis(latest), formatAxis(Mean(tr.Values))); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		label := ""
		switch {
		case y == 0:
			label = labels[0]
		case y == height-1:
			label = labels[2]
		case height > 2 && y == height/2:
			label = labels[1]
		}
		line := c.row(y)
		if color != "" {
			line = color + line + colorReset
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", runewidth.FillLeft(label, labelWidth), axisSeparator, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// bucket averages values down to at most n points.
func bucket(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		start := i * len(values) / n
		end := max((i+1)*len(values)/n, start+1)
		out[i] = Mean(values[start:end])
	}
	return out
}

func formatAxis(v float64) string {
	if math.Abs(v-math.Round(v)) < 0.05 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// PlotWidthFor computes the chart width in cells that fits totalWidth
// columns next to a value axis labelWidth wide.
func PlotWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(minPlotWidth, totalWidth-labelWidth-runewidth.StringWidth(axisSeparator))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

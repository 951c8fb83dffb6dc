package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-netgraph/pkg/geom"
	"github.com/dd0wney/cluso-netgraph/pkg/render"
)

const (
	runeHub     = '●'
	runeLeaf    = '•'
	runeLink    = '·'
	runeDashed  = ':'
	runeOverlay = '.'
	labelWidth  = 18
	overlayGrey = "#444444"
)

type glyph struct {
	r     rune
	color string
	faint bool
	bold  bool
}

// canvas is a character grid in which every cell covers colWidth×rowHeight
// layout units
type canvas struct {
	cols, rows          int
	colWidth, rowHeight float64
	cells               [][]glyph
}

func newCanvas(cols, rows int, colWidth, rowHeight float64) *canvas {
	c := &canvas{cols: cols, rows: rows, colWidth: colWidth, rowHeight: rowHeight}
	c.cells = make([][]glyph, rows)
	for r := range c.cells {
		c.cells[r] = make([]glyph, cols)
		for col := range c.cells[r] {
			c.cells[r][col] = glyph{r: ' '}
		}
	}
	return c
}

func (c *canvas) cellOf(p geom.Point) (int, int) {
	return int(math.Floor(p.X / c.colWidth)), int(math.Floor(p.Y / c.rowHeight))
}

// center returns the layout point at the middle of a cell
func (c *canvas) center(col, row int) geom.Point {
	return geom.Point{X: (float64(col) + 0.5) * c.colWidth, Y: (float64(row) + 0.5) * c.rowHeight}
}

func (c *canvas) set(col, row int, g glyph) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row][col] = g
}

func (c *canvas) line(a, b geom.Point, g glyph, dashed bool) {
	ac, ar := c.cellOf(a)
	bc, br := c.cellOf(b)
	steps := max(abs(bc-ac), abs(br-ar))
	if steps == 0 {
		c.set(ac, ar, g)
		return
	}
	for i := 0; i <= steps; i++ {
		if dashed && i%2 == 1 {
			continue
		}
		t := float64(i) / float64(steps)
		col := int(math.Round(float64(ac) + t*float64(bc-ac)))
		row := int(math.Round(float64(ar) + t*float64(br-ar)))
		c.set(col, row, g)
	}
}

func (c *canvas) text(col, row int, s string, g glyph) {
	for i, r := range []rune(s) {
		g.r = r
		c.set(col+i, row, g)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// drawFrame paints the partition overlay, then links, then nodes and labels
func drawFrame(f *render.Frame, c *canvas, overlay bool) {
	if overlay {
		og := glyph{r: runeOverlay, color: overlayGrey, faint: true}
		for _, cell := range f.Cells {
			for i := range cell {
				c.line(cell[i], cell[(i+1)%len(cell)], og, false)
			}
		}
	}

	for _, l := range f.Links {
		g := glyph{r: runeLink, color: l.Style.Stroke, faint: l.Style.Opacity < 1}
		if l.Style.Dashed {
			g.r = runeDashed
		}
		c.line(l.Source, l.Target, g, l.Style.Dashed)
	}

	var focused string
	if f.Focus != nil {
		focused = f.Focus.Key
	}
	for _, n := range f.Nodes {
		col, row := c.cellOf(geom.Point{X: n.X, Y: n.Y})
		g := glyph{r: runeHub, color: n.Style.Stroke, faint: n.Style.Opacity < 1, bold: n.Key == focused}
		if n.Leaf {
			g.r = runeLeaf
		}
		c.set(col, row, g)

		if n.Key == focused || (!n.Leaf && n.Style.Opacity >= 1) {
			label := g
			label.color = ""
			c.text(col+2, row, truncate(n.Title, labelWidth), label)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// plain returns the grid without colour
func (c *canvas) plain() string {
	var sb strings.Builder
	for r, row := range c.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, g := range row {
			sb.WriteRune(g.r)
		}
	}
	return sb.String()
}

// styled renders the grid, grouping runs of equally styled cells
func (c *canvas) styled() string {
	cache := make(map[glyph]lipgloss.Style)
	styleFor := func(g glyph) lipgloss.Style {
		g.r = 0
		if s, ok := cache[g]; ok {
			return s
		}
		s := lipgloss.NewStyle().Faint(g.faint).Bold(g.bold)
		if g.color != "" {
			s = s.Foreground(lipgloss.Color(g.color))
		}
		cache[g] = s
		return s
	}

	var sb strings.Builder
	for r, row := range c.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && sameStyle(row[i], row[start]) {
				continue
			}
			var run strings.Builder
			for _, g := range row[start:i] {
				run.WriteRune(g.r)
			}
			if row[start].color == "" && !row[start].faint && !row[start].bold {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(styleFor(row[start]).Render(run.String()))
			}
			start = i
		}
	}
	return sb.String()
}

func sameStyle(a, b glyph) bool {
	return a.color == b.color && a.faint == b.faint && a.bold == b.bold
}

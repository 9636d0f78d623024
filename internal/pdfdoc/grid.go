package pdfdoc

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/tables"
	"github.com/tsawler/tabula/text"

	"github.com/pfrederiksen/lunch-line/internal/menu"
)

// Rectangles thinner than this are drawn rules rather than boxes.
const maxRuleThickness = 2.0

// detectGrids finds ruled grids from the page's stroked lines and from the
// edges of its stroked rectangles and thin filled bars.
func detectGrids(ge *graphicsstate.GraphicsExtractor) []*tables.GridHypothesis {
	grid := ge.GetGridLines()
	horizontals := grid.Horizontals
	verticals := grid.Verticals

	for _, rect := range ge.GetRectangles() {
		h, v := rectangleRules(rect)
		horizontals = append(horizontals, h...)
		verticals = append(verticals, v...)
	}

	return tables.NewGridDetector().DetectFromLines(horizontals, verticals)
}

// rectangleRules returns the edges a rectangle contributes to a grid.
func rectangleRules(rect graphicsstate.ExtractedRectangle) (horizontals, verticals []graphicsstate.ExtractedLine) {
	b := rect.BBox
	switch {
	case rect.IsFilled && !rect.IsStroked && b.Height <= maxRuleThickness:
		y := b.Y + b.Height/2
		horizontals = append(horizontals, ruleLine(b.X, y, b.X+b.Width, y))
	case rect.IsFilled && !rect.IsStroked && b.Width <= maxRuleThickness:
		x := b.X + b.Width/2
		verticals = append(verticals, ruleLine(x, b.Y, x, b.Y+b.Height))
	case rect.IsStroked:
		horizontals = append(horizontals,
			ruleLine(b.X, b.Y, b.X+b.Width, b.Y),
			ruleLine(b.X, b.Y+b.Height, b.X+b.Width, b.Y+b.Height),
		)
		verticals = append(verticals,
			ruleLine(b.X, b.Y, b.X, b.Y+b.Height),
			ruleLine(b.X+b.Width, b.Y, b.X+b.Width, b.Y+b.Height),
		)
	}
	return horizontals, verticals
}

func ruleLine(x1, y1, x2, y2 float64) graphicsstate.ExtractedLine {
	return graphicsstate.ExtractedLine{
		Start:        model.Point{X: x1, Y: y1},
		End:          model.Point{X: x2, Y: y2},
		IsHorizontal: y1 == y2,
		IsVertical:   x1 == x2,
		BBox: model.BBox{
			X:      math.Min(x1, x2),
			Y:      math.Min(y1, y2),
			Width:  math.Abs(x2 - x1),
			Height: math.Abs(y2 - y1),
		},
	}
}

// fillGrid places each text fragment in the grid cell that contains it and
// returns the cell texts row by row, top row first. Lines within a cell are
// joined with "\n". Rows without any text are dropped.
func fillGrid(grid *tables.GridHypothesis, fragments []text.TextFragment) menu.RawTable {
	if grid == nil || len(grid.HorizontalLines) < 2 || len(grid.VerticalLines) < 2 {
		return nil
	}
	rows := len(grid.HorizontalLines) - 1
	cols := len(grid.VerticalLines) - 1

	cells := make([][][]text.TextFragment, rows)
	for i := range cells {
		cells[i] = make([][]text.TextFragment, cols)
	}

	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		x, y := anchor(f)
		row := rowAt(grid.HorizontalLines, y)
		col := colAt(grid.VerticalLines, x)
		if row < 0 || col < 0 {
			continue
		}
		cells[row][col] = append(cells[row][col], f)
	}

	table := make(menu.RawTable, 0, rows)
	for _, row := range cells {
		texts := make([]string, cols)
		empty := true
		for j, frags := range row {
			texts[j] = cellText(frags)
			if texts[j] != "" {
				empty = false
			}
		}
		if !empty {
			table = append(table, texts)
		}
	}
	return table
}

// anchor returns a point inside the first glyphs of a fragment. Y is the
// baseline, so it is lifted into the glyph body.
func anchor(f text.TextFragment) (float64, float64) {
	size := fontSize(f)
	return f.X + math.Min(f.Width, size)/2, f.Y + size*0.3
}

func fontSize(f text.TextFragment) float64 {
	if f.FontSize > 0 {
		return f.FontSize
	}
	if f.Height > 0 {
		return f.Height
	}
	return 1
}

// rowAt returns the row whose band holds y. Ys are sorted top to bottom.
func rowAt(ys []float64, y float64) int {
	for i := 0; i+1 < len(ys); i++ {
		if y <= ys[i] && y > ys[i+1] {
			return i
		}
	}
	return -1
}

// colAt returns the column whose band holds x. Xs are sorted left to right.
func colAt(xs []float64, x float64) int {
	for j := 0; j+1 < len(xs); j++ {
		if x >= xs[j] && x < xs[j+1] {
			return j
		}
	}
	return -1
}

// cellText assembles the fragments of one cell into lines, top to bottom.
func cellText(fragments []text.TextFragment) string {
	if len(fragments) == 0 {
		return ""
	}

	sorted := make([]text.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]text.TextFragment
	for _, f := range sorted {
		n := len(lines)
		if n > 0 && math.Abs(lines[n-1][0].Y-f.Y) <= fontSize(f)*0.5 {
			lines[n-1] = append(lines[n-1], f)
			continue
		}
		lines = append(lines, []text.TextFragment{f})
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := joinLine(line); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

// joinLine concatenates the fragments of one text line left to right,
// inserting a space where the gap between them is wider than a glyph gap.
func joinLine(line []text.TextFragment) string {
	sort.SliceStable(line, func(i, j int) bool {
		return line[i].X < line[j].X
	})

	var sb strings.Builder
	for i, f := range line {
		if i > 0 {
			prev := line[i-1]
			gap := f.X - (prev.X + prev.Width)
			if gap > fontSize(f)*0.15 && !endsWithSpace(sb.String()) && !startsWithSpace(f.Text) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(f.Text)
	}
	return strings.TrimSpace(sb.String())
}

func endsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[len(s)-1]))
}

func startsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[0]))
}

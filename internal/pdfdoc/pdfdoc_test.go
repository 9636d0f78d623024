package pdfdoc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/tables"
	"github.com/tsawler/tabula/text"

	"github.com/pfrederiksen/lunch-line/internal/menu"
)

func TestToModelFragments(t *testing.T) {
	fragments := []text.TextFragment{
		{Text: "BREAKFAST:", X: 10, Y: 700, Width: 60, Height: 12, FontName: "Helvetica-Bold", FontSize: 11},
		{Text: "Mon (28)", X: 120, Y: 740, Width: 48, Height: 12, FontName: "Helvetica", FontSize: 10},
	}

	got := toModelFragments(fragments)

	require.Len(t, got, 2)
	assert.Equal(t, "BREAKFAST:", got[0].Text)
	assert.Equal(t, model.BBox{X: 10, Y: 700, Width: 60, Height: 12}, got[0].BBox)
	assert.Equal(t, "Helvetica-Bold", got[0].FontName)
	assert.Equal(t, 11.0, got[0].FontSize)
	assert.Equal(t, 752.0, got[1].BBox.Top())
}

func TestToModelFragments_Empty(t *testing.T) {
	got := toModelFragments(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func newTable(top float64, cells [][]string) *model.Table {
	cols := 0
	if len(cells) > 0 {
		cols = len(cells[0])
	}
	table := model.NewTable(len(cells), cols)
	table.BBox = model.NewBBox(0, top-100, 500, 100)
	for i, row := range cells {
		for j, cell := range row {
			table.Rows[i][j].Text = cell
		}
	}
	return table
}

func TestToRawTables_OrdersTopToBottom(t *testing.T) {
	lower := newTable(300, [][]string{{"notes"}})
	upper := newTable(750, [][]string{
		{"", "Mon (28)"},
		{"LUNCH:", "Pizza"},
	})

	got := toRawTables([]*model.Table{lower, nil, upper, model.NewTable(0, 0)})

	require.Len(t, got, 2)
	assert.Equal(t, menu.RawTable{{"", "Mon (28)"}, {"LUNCH:", "Pizza"}}, got[0])
	assert.Equal(t, menu.RawTable{{"notes"}}, got[1])
}

func TestToRawTables_None(t *testing.T) {
	assert.Empty(t, toRawTables(nil))
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestPlainText_MissingFile(t *testing.T) {
	_, err := PlainText(filepath.Join(t.TempDir(), "missing.pdf"), 1)
	assert.Error(t, err)
}

const fixturePDF = "../../testdata/fixtures/test_menu.pdf"

// weekGrid is a 4x3 ruled grid: a header row over three meal rows and a label
// column beside two day columns.
func weekGrid() *tables.GridHypothesis {
	return &tables.GridHypothesis{
		HorizontalLines: []float64{540, 515, 440, 365, 320},
		VerticalLines:   []float64{30, 90, 224, 358},
		Rows:            4,
		Cols:            3,
	}
}

func frag(s string, x, y, size float64) text.TextFragment {
	return text.TextFragment{Text: s, X: x, Y: y, Width: float64(len(s)) * size * 0.5, Height: size, FontSize: size}
}

func TestFillGrid_MultiLineCells(t *testing.T) {
	fragments := []text.TextFragment{
		frag("Mon (27)", 94, 524, 8),
		frag("Tue (28)", 228, 524, 8),
		frag("No School", 94, 430, 7),
		frag("BREAKFAST:", 228, 505, 7),
		frag("multigrain Cereal, Apple Slices,", 228, 496, 7),
		frag("Milk", 228, 487, 7),
		frag("LUNCH:", 228, 430, 7),
		frag("DB cheese pizza, Cucumbers,", 228, 421, 7),
		frag("Peaches, Milk", 228, 412, 7),
		frag("PM SNACK:", 228, 355, 7),
		frag("Cheese Its, Milk", 228, 346, 7),
		// outside the grid
		frag("27 May 2024 - 31 May 2024", 300, 560, 10),
	}

	got := fillGrid(weekGrid(), fragments)

	assert.Equal(t, menu.RawTable{
		{"", "Mon (27)", "Tue (28)"},
		{"", "", "BREAKFAST:\nmultigrain Cereal, Apple Slices,\nMilk"},
		{"", "No School", "LUNCH:\nDB cheese pizza, Cucumbers,\nPeaches, Milk"},
		{"", "", "PM SNACK:\nCheese Its, Milk"},
	}, got)

	meals := menu.ExtractMeals(got)
	assert.Equal(t, "multigrain Cereal, Apple Slices, Milk", meals["Tue (28)"][menu.Breakfast])
	assert.NotContains(t, meals, "Mon (27)")
}

func TestFillGrid_SingleLineCells(t *testing.T) {
	fragments := []text.TextFragment{
		frag("Mon (27)", 94, 524, 8),
		frag("Tue (28)", 228, 524, 8),
		frag("BREAKFAST: Cereal", 94, 505, 7),
		frag("BREAKFAST: Bagel", 228, 505, 7),
		frag("LUNCH: Pizza", 94, 430, 7),
		frag("LUNCH: Tacos", 228, 430, 7),
		frag("PM SNACK: Pretzels", 94, 355, 7),
		frag("PM SNACK: Crackers", 228, 355, 7),
	}

	got := fillGrid(weekGrid(), fragments)

	require.Len(t, got, 4)
	for _, row := range got {
		assert.Len(t, row, 3)
	}
	meals := menu.ExtractMeals(got)
	assert.Equal(t, menu.MealsByDay{
		"Mon (27)": {menu.Breakfast: "Cereal", menu.Lunch: "Pizza", menu.PMSnack: "Pretzels"},
		"Tue (28)": {menu.Breakfast: "Bagel", menu.Lunch: "Tacos", menu.PMSnack: "Crackers"},
	}, meals)
}

func TestFillGrid_DropsEmptyRows(t *testing.T) {
	grid := &tables.GridHypothesis{
		HorizontalLines: []float64{600, 540, 515},
		VerticalLines:   []float64{30, 90},
	}

	got := fillGrid(grid, []text.TextFragment{frag("Mon (27)", 34, 524, 8)})

	assert.Equal(t, menu.RawTable{{"Mon (27)"}}, got)
}

func TestFillGrid_Degenerate(t *testing.T) {
	assert.Nil(t, fillGrid(nil, nil))
	assert.Nil(t, fillGrid(&tables.GridHypothesis{HorizontalLines: []float64{10}, VerticalLines: []float64{0, 5}}, nil))
}

func TestCellText_JoinsWordsOnALine(t *testing.T) {
	bold := frag("LUNCH:", 100, 400, 7)
	rest := frag("Pizza", bold.X+bold.Width+2, 400, 7)
	tail := frag(", Milk", rest.X+rest.Width, 400, 7)

	assert.Equal(t, "LUNCH: Pizza, Milk", cellText([]text.TextFragment{tail, rest, bold}))
	assert.Equal(t, "", cellText(nil))
}

func TestRectangleRules(t *testing.T) {
	box := graphicsstate.ExtractedRectangle{BBox: model.BBox{X: 10, Y: 20, Width: 100, Height: 50}, IsStroked: true}
	h, v := rectangleRules(box)
	assert.Len(t, h, 2)
	assert.Len(t, v, 2)
	assert.True(t, h[0].IsHorizontal)
	assert.True(t, v[0].IsVertical)

	bar := graphicsstate.ExtractedRectangle{BBox: model.BBox{X: 10, Y: 20, Width: 100, Height: 1}, IsFilled: true}
	h, v = rectangleRules(bar)
	require.Len(t, h, 1)
	assert.Empty(t, v)
	assert.Equal(t, 20.5, h[0].Start.Y)

	shading := graphicsstate.ExtractedRectangle{BBox: model.BBox{X: 10, Y: 20, Width: 100, Height: 50}, IsFilled: true}
	h, v = rectangleRules(shading)
	assert.Empty(t, h)
	assert.Empty(t, v)
}

func TestTables_RuledFixture(t *testing.T) {
	doc, err := Open(fixturePDF)
	require.NoError(t, err)
	defer doc.Close()

	count, err := doc.PageCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	page, err := doc.FirstPage()
	require.NoError(t, err)

	txt, err := page.Text()
	require.NoError(t, err)
	assert.Contains(t, txt, "27 May 2024 - 31 May 2024")

	found, err := page.Tables()
	require.NoError(t, err)
	require.NotEmpty(t, found)

	table := found[0]
	require.Len(t, table, 4)
	assert.Equal(t, []string{"", "Mon (27)", "Tue (28)", "Wed (29)", "Thu (30)", "Fri (31)"}, table[0])
	assert.Equal(t, "BREAKFAST:\nEnglish Muffin W/ Butter And\nJelly, Oranges, Milk", table[1][3])
	assert.Equal(t, "No School", table[2][1])
	assert.Equal(t, "PM SNACK:\nCheese Stick, Crackers, Water", table[3][5])
}

func TestPlainText_Fixture(t *testing.T) {
	txt, err := PlainText(fixturePDF, 1)
	require.NoError(t, err)
	assert.Contains(t, txt, "SCHOOL MENU")

	_, err = PlainText(fixturePDF, 2)
	assert.Error(t, err)
}

// Package pdfdoc opens menu PDFs and exposes the text and table grids of their
// first page.
//
// Tables are read from the page's ruled grid: tabula's grid detector finds the
// row and column rules, and each text fragment lands in the cell that contains
// it. Pages without a ruled grid fall back to tabula's geometric detector,
// which infers columns from text alignment. Text comes from tabula's layout-aware text
// assembly; a plain-text reading from ledongthuc/pdf is available as a second
// opinion for headers that tabula splits oddly.
package pdfdoc

import (
	"fmt"
	"sort"

	"github.com/ledongthuc/pdf"
	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/tables"
	"github.com/tsawler/tabula/text"

	"github.com/pfrederiksen/lunch-line/internal/logger"
	"github.com/pfrederiksen/lunch-line/internal/menu"
)

// Page is a single page of an opened document.
type Page interface {
	// Text returns the page text in reading order.
	Text() (string, error)
	// Tables returns the table grids found on the page, top-most first.
	Tables() ([]menu.RawTable, error)
}

// PlainTexter is implemented by pages that can supply a second, independent
// text extraction.
type PlainTexter interface {
	PlainText() (string, error)
}

// Document is an opened document. Close must be called when done.
type Document interface {
	PageCount() (int, error)
	FirstPage() (Page, error)
	Close() error
}

// Opener opens the document at path.
type Opener func(path string) (Document, error)

// Document backed by a tabula reader
type tabulaDocument struct {
	path string
	r    *reader.Reader
}

// Open opens a PDF file. It satisfies Opener.
func Open(path string) (Document, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &tabulaDocument{path: path, r: r}, nil
}

func (d *tabulaDocument) PageCount() (int, error) {
	return d.r.PageCount()
}

func (d *tabulaDocument) FirstPage() (Page, error) {
	p, err := d.r.GetPage(0)
	if err != nil {
		return nil, fmt.Errorf("reading page 1: %w", err)
	}
	return &tabulaPage{doc: d, page: p}, nil
}

func (d *tabulaDocument) Close() error {
	return d.r.Close()
}

type tabulaPage struct {
	doc  *tabulaDocument
	page *pages.Page
}

func (p *tabulaPage) Text() (string, error) {
	// FromReader leaves the reader open; the document owns it
	txt, warnings, err := tabula.FromReader(p.doc.r).Pages(1).Text()
	if err != nil {
		return "", fmt.Errorf("extracting page text: %w", err)
	}
	if len(warnings) > 0 {
		logger.Debug("PDF text extraction warnings", logger.Fields{
			"path":     p.doc.path,
			"warnings": len(warnings),
		})
	}
	return txt, nil
}

func (p *tabulaPage) PlainText() (string, error) {
	return PlainText(p.doc.path, 1)
}

func (p *tabulaPage) Tables() ([]menu.RawTable, error) {
	fragments, err := p.doc.r.ExtractTextFragments(p.page)
	if err != nil {
		return nil, fmt.Errorf("extracting text fragments: %w", err)
	}

	ge, err := graphics(p.page)
	if err != nil {
		// Detection still works from text alignment alone
		logger.Warn("Reading ruling lines failed", logger.Fields{"path": p.doc.path, "error": err.Error()})
	}

	if ge != nil {
		var found []menu.RawTable
		for _, grid := range detectGrids(ge) {
			if table := fillGrid(grid, fragments); len(table) > 0 {
				found = append(found, table)
			}
		}
		if len(found) > 0 {
			logger.Debug("Detected ruled tables", logger.Fields{
				"path":      p.doc.path,
				"fragments": len(fragments),
				"tables":    len(found),
			})
			return found, nil
		}
	}

	return p.geometricTables(fragments, ge)
}

// geometricTables infers tables from text alignment when the page has no
// ruled grid.
func (p *tabulaPage) geometricTables(fragments []text.TextFragment, ge *graphicsstate.GraphicsExtractor) ([]menu.RawTable, error) {
	width, _ := p.page.Width()
	height, _ := p.page.Height()

	mp := model.NewPage(width, height)
	mp.Number = 1
	mp.RawText = toModelFragments(fragments)
	if ge != nil {
		mp.RawLines = append(ge.ToModelLines(), ge.ToModelRectangles()...)
	}

	found, err := tables.NewGeometricDetector().Detect(mp)
	if err != nil {
		return nil, fmt.Errorf("detecting tables: %w", err)
	}

	logger.Debug("Detected tables from text alignment", logger.Fields{
		"path":      p.doc.path,
		"fragments": len(fragments),
		"lines":     len(mp.RawLines),
		"tables":    len(found),
	})

	return toRawTables(found), nil
}

// graphics parses the drawing operators of the page's content streams.
func graphics(page *pages.Page) (*graphicsstate.GraphicsExtractor, error) {
	contents, err := page.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading contents: %w", err)
	}

	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("decoding content stream: %w", err)
		}
		data = append(data, decoded...)
		data = append(data, '\n')
	}
	if len(data) == 0 {
		return nil, nil
	}

	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.ExtractFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing graphics: %w", err)
	}
	return ge, nil
}

func toModelFragments(fragments []text.TextFragment) []model.TextFragment {
	out := make([]model.TextFragment, 0, len(fragments))
	for _, f := range fragments {
		out = append(out, model.TextFragment{
			Text:     f.Text,
			BBox:     model.NewBBox(f.X, f.Y, f.Width, f.Height),
			FontSize: f.FontSize,
			FontName: f.FontName,
		})
	}
	return out
}

// toRawTables converts detected tables to cell grids ordered top to bottom.
// PDF y grows upwards, so a higher top edge is nearer the top of the page.
func toRawTables(found []*model.Table) []menu.RawTable {
	sorted := make([]*model.Table, 0, len(found))
	for _, t := range found {
		if t != nil && t.RowCount() > 0 {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Top() > sorted[j].BBox.Top()
	})

	out := make([]menu.RawTable, 0, len(sorted))
	for _, t := range sorted {
		grid := make(menu.RawTable, 0, t.RowCount())
		for _, row := range t.Rows {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = cell.Text
			}
			grid = append(grid, cells)
		}
		out = append(out, grid)
	}
	return out
}

// PlainText returns the text of a 1-indexed page using ledongthuc/pdf.
func PlainText(path string, pageNum int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	if pageNum < 1 || pageNum > r.NumPage() {
		return "", fmt.Errorf("page %d out of range (document has %d)", pageNum, r.NumPage())
	}

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d has no content", pageNum)
	}

	txt, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extracting plain text: %w", err)
	}
	return txt, nil
}

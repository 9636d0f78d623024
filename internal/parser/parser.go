// Package parser turns a weekly menu PDF into a FinalMenu keyed by ISO date.
//
// Only the first page is consulted. Its text supplies the week's date range
// and its first table supplies the day columns and meal sections.
package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/lunch-line/internal/logger"
	"github.com/pfrederiksen/lunch-line/internal/menu"
	"github.com/pfrederiksen/lunch-line/internal/pdfdoc"
)

var (
	// ErrOpen is returned when the document cannot be opened or read
	ErrOpen = errors.New("cannot open document")
	// ErrNoPages is returned for a document without pages
	ErrNoPages = errors.New("document has no pages")
	// ErrNoMenuTable is returned when table detection fails on the first page
	ErrNoMenuTable = errors.New("cannot read menu table")
	// ErrPanic wraps a panic recovered while reading the document
	ErrPanic = errors.New("document processing panicked")
)

// Result is a successfully parsed menu.
type Result struct {
	Menu   menu.FinalMenu `json:"menu" yaml:"menu"`
	Range  menu.DateRange `json:"range" yaml:"range"`
	Source string         `json:"source" yaml:"source"`
}

// Parser extracts menus from documents opened by its Opener.
type Parser struct {
	open pdfdoc.Opener
}

// Option configures a Parser.
type Option func(*Parser)

// WithOpener replaces the PDF opener.
func WithOpener(open pdfdoc.Opener) Option {
	return func(p *Parser) { p.open = open }
}

// New creates a Parser that opens PDFs from disk.
func New(opts ...Option) *Parser {
	p := &Parser{
		open: pdfdoc.Open,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the menu from the document at path.
func (p *Parser) Parse(path string) (result *Result, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
		if err != nil {
			logger.IncrCounter("parse.failures")
			logger.Error("Parsing menu failed", logger.Fields{"path": path}, err)
			return
		}
		logger.RecordTiming("parse.duration", time.Since(start))
	}()

	doc, err := p.open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer doc.Close()

	count, err := doc.PageCount()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if count == 0 {
		return nil, ErrNoPages
	}

	page, err := doc.FirstPage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	dateRange, err := resolveRange(page)
	if err != nil {
		return nil, err
	}

	tables, err := page.Tables()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMenuTable, err)
	}
	meals := menu.ExtractFromTables(tables)
	final := menu.MapToDates(meals, dateRange)

	logger.SetGauge("menu.days", float64(len(final)))
	logger.Info("Menu parsed", logger.Fields{
		"path":  path,
		"range": dateRange.String(),
		"days":  len(final),
	})

	return &Result{Menu: final, Range: dateRange, Source: path}, nil
}

// resolveRange reads the date range from the page text, falling back to the
// page's plain-text reading when the primary text has none.
func resolveRange(page pdfdoc.Page) (menu.DateRange, error) {
	txt, textErr := page.Text()
	if textErr == nil {
		r, err := menu.ResolveDateRange(txt)
		if err == nil {
			return r, nil
		}
		// A malformed but present range is final
		if !errors.Is(err, menu.ErrNoDateRange) {
			return menu.DateRange{}, err
		}
		textErr = err
	}

	alt, ok := page.(pdfdoc.PlainTexter)
	if !ok {
		return menu.DateRange{}, wrapRangeErr(textErr)
	}

	logger.Debug("Retrying date range with plain text", logger.Fields{"reason": textErr.Error()})

	plain, err := alt.PlainText()
	if err != nil {
		return menu.DateRange{}, wrapRangeErr(textErr)
	}
	return menu.ResolveDateRange(plain)
}

func wrapRangeErr(err error) error {
	if errors.Is(err, menu.ErrNoDateRange) {
		return err
	}
	return fmt.Errorf("%w: reading page text: %v", menu.ErrNoDateRange, err)
}

// Run parses the document at path with the default Parser. Any failure is
// logged and yields nil.
func Run(path string) menu.FinalMenu {
	result, err := New().Parse(path)
	if err != nil {
		return nil
	}
	return result.Menu
}

package scraper

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/lunch-line/internal/logger"
)

const (
	UserAgent = "lunch-line/1.0 (github.com/pfrederiksen/lunch-line)"
	Timeout   = 30 * time.Second
	// MaxPDFSize caps a single download
	MaxPDFSize = 20 << 20
)

var (
	// ErrNoMenuLinks is returned when the page links to no menu PDF
	ErrNoMenuLinks = errors.New("no menu PDF links found")
	// ErrNotPDF is returned when a download is not a PDF document
	ErrNotPDF = errors.New("response is not a PDF")
)

var pdfMagic = []byte("%PDF")

// Scraper handles fetching menu pages and menu PDFs
type Scraper struct {
	client *http.Client
	url    string
}

// New creates a new Scraper for the menu page at pageURL
func New(pageURL string) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url: pageURL,
	}
}

// URL returns the menu page URL
func (s *Scraper) URL() string {
	return s.url
}

// FindMenuLinks fetches the menu page and returns absolute URLs of the menu
// PDFs it links to, in page order
func (s *Scraper) FindMenuLinks() ([]string, error) {
	base, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	resp, err := s.get(s.url)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	links, err := s.parseLinks(resp.Body, base)
	if err != nil {
		return nil, err
	}

	logger.Debug("Found menu links", logger.Fields{"url": s.url, "links": len(links)})

	return links, nil
}

// parseLinks extracts menu PDF links from HTML
func (s *Scraper) parseLinks(r io.Reader, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	links := make([]string, 0)
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)

		if !strings.HasSuffix(strings.ToLower(abs.Path), ".pdf") {
			return
		}

		text := strings.ToLower(sel.Text())
		if !strings.Contains(strings.ToLower(abs.String()), "menu") && !strings.Contains(text, "menu") {
			return
		}

		link := abs.String()
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})

	return links, nil
}

// Download saves the PDF at pdfURL into dir and returns the file path. The
// file name is taken from the URL path.
func (s *Scraper) Download(pdfURL, dir string) (string, error) {
	u, err := url.Parse(pdfURL)
	if err != nil {
		return "", fmt.Errorf("parsing PDF URL: %w", err)
	}

	resp, err := s.get(pdfURL)
	if err != nil {
		return "", fmt.Errorf("fetching PDF: %w", err)
	}
	defer resp.Body.Close()

	body := bufio.NewReader(io.LimitReader(resp.Body, MaxPDFSize+1))
	head, _ := body.Peek(len(pdfMagic))
	if !bytes.Equal(head, pdfMagic) {
		return "", fmt.Errorf("%w: %s", ErrNotPDF, pdfURL)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("writing PDF: %w", err)
	}
	if n > MaxPDFSize {
		return "", fmt.Errorf("PDF exceeds %d bytes: %s", MaxPDFSize, pdfURL)
	}

	dest := filepath.Join(dir, fileName(u))
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("saving PDF: %w", err)
	}

	logger.Info("Menu downloaded", logger.Fields{"url": pdfURL, "path": dest, "bytes": n})

	return dest, nil
}

// FetchLatest downloads the first menu PDF linked from the page
func (s *Scraper) FetchLatest(dir string) (string, error) {
	links, err := s.FindMenuLinks()
	if err != nil {
		return "", err
	}
	if len(links) == 0 {
		return "", fmt.Errorf("%w on %s", ErrNoMenuLinks, s.url)
	}
	return s.Download(links[0], dir)
}

func (s *Scraper) get(target string) (*http.Response, error) {
	req, err := http.NewRequest("GET", target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp, nil
}

// fileName derives a safe local file name from a URL path
func fileName(u *url.URL) string {
	name := path.Base(u.EscapedPath())
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "" || name == "." || name == "/" || name == ".." {
		name = "menu"
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

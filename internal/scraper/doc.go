// Package scraper provides HTTP fetching and HTML parsing for school menu pages.
//
// The scraper package fetches a school's menu web page, finds the links to the
// weekly menu PDFs and downloads them. A link counts as a menu when its target
// is a .pdf file and either the URL or the link text mentions "menu". Links are
// returned in page order, so the first one is taken as the latest menu.
package scraper

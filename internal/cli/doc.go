// Package cli implements the command-line interface for lunch-line.
//
// The cli package provides the Cobra-based CLI with commands to parse a menu PDF,
// fetch the latest menu from the school website and publish meals as calendar
// events. It formats output (text/JSON/YAML), sorts days and applies filters, and
// coordinates the parser, scraper, storage and publisher packages. Settings come
// from the config package, so every persistent flag can also be set in
// lunch-line.yaml or as a LUNCH_LINE_* environment variable.
package cli

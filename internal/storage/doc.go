// Package storage provides JSON-based persistence for the published-days ledger.
//
// The ledger is a snapshot of every menu day already written to a calendar,
// stored as published.json in the data directory. The publish command diffs a
// freshly parsed menu against it so that only new or changed days go out.
// The default storage location is ~/.local/share/lunch-line/.
package storage

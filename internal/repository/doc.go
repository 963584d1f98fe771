// Package repository defines the data access interface for lexibase.
//
// The Repository interface covers the catalog (languages, sources, words,
// subsets, wordlists), cognacy (candidate entries, cognate sets, merges),
// data-entry tasks, batch imports, and revision history. The sqlite
// subpackage is the only implementation.
//
// Lookups of a single object return (nil, nil) when nothing matches; the
// service layer turns that into a not-found error. Operations that write
// more than one table (merges, task submissions, imports) run inside a
// single transaction.
package repository

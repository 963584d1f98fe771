// Package service implements the lexibase workflows on top of the repository.
//
// # Services
//
// CatalogService serves read-only lookups (languages, sources, words,
// cognate sets, tasks, clade aggregation and statistics). Source lookups go
// through a short TTL cache.
//
// CognacyService runs the cognate assignment filter (a word plus an optional
// clade) and the cognate-set merge form, which folds one set into another in
// a single transaction and records a revision.
//
// EntryService builds the per-task data-entry rows from a wordlist or a
// fixed word battery and saves submitted rows as lexicon entries.
//
// Importer applies declarative dataset files. Imports are dry runs unless
// explicitly committed.
//
// Form input is validated into *form.ValidationError values; lookups of
// missing objects wrap ErrNotFound.
//
// # Event System
//
// Services publish events (cognates.merged, lexicon.saved, dataset.imported)
// on an EventBus, which the server forwards to SSE clients.
package service

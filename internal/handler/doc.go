// Package handler implements the lexibase HTTP API.
//
// # Handlers
//
// ResourceHandler serves the read-only language and source resources under
// /api/v1/ in a paged {meta, objects} envelope.
//
// CatalogHandler serves the word, subset, cognate set, task, clade and
// statistics endpoints.
//
// CognacyHandler and EntryHandler serve the cognate assignment, cognate
// merge and task data-entry forms. Form posts accept JSON or url-encoded
// bodies.
//
// # Response Format
//
// Success responses return JSON data. Errors return {error, details};
// validation failures return 400 with per-field messages under "fields"
// (and "rows" for multi-row forms). Missing objects return 404.
package handler

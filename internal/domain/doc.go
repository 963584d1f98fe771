// Package domain defines the core types of the lexical database.
//
// # Catalog
//
// Language and Source are the slug-keyed reference records. A language's
// Classification is a comma-separated path of taxa from the family root
// down, and Clades aggregates those paths into counted prefixes.
//
// Word is a meaning in the comparative wordlist. WordSubset groups words
// for display; Wordlist is an ordered list used by data-entry tasks.
//
// # Lexicon and cognacy
//
// Lexicon is one attested form of a word in a language from a source.
// CognateSet groups lexicon entries judged to descend from one protoform,
// with Cognate as the membership row. CorrespondenceSet records sound
// correspondence rules per language.
//
// # Data entry
//
// Task is a unit of data entry for one language and source. Its rows come
// either from a Wordlist or from a named Battery such as Shaw (1986).
//
// # Imports
//
// Dataset is the declarative file format applied by the importer. Every
// import and merge is recorded as a Revision.
//
// The package has no database or transport dependencies.
package domain

// Package registry provides the capability sources a feature whitelist is
// pruned against, and the table of globally-mandatory features.
//
// A capability source answers one question: is feature id available in the
// current build environment? Sources:
//   - Set: a fixed in-memory list
//   - Dir: an extension directory, probed for <id>/manifest.json
//   - Catalog: a SQLite feature catalog
//   - Union: available if any member says so
//
// All sources are read-only during a compile and safe for concurrent use.
package registry

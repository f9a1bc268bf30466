// Package docsync runs the documentation sync: it builds the Sync Map from the
// configuration and package descriptor, copies the assets directory, and
// writes every document to the docs tree, either verbatim or through the
// markdown converter.
//
// Runs are synchronous and serial. Watch re-runs the whole batch after
// debounced filesystem events and never overlaps two runs.
package docsync

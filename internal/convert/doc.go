// Package convert rewrites repository-flavored markdown into the dialect the
// documentation site generator consumes.
//
// All rewriting is pattern based and works on raw text. A Transformer runs a
// fixed sequence of stages over one document: asset prefixes, centered div
// blocks, package shorthand links, badge removal, table cell reflow, package
// header styling and finally link resolution against the Sync Map. Running the
// Transformer over its own output changes nothing.
package convert

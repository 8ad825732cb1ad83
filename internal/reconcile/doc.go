// Package reconcile merges regenerated code with manual edits made inside a
// generated region.
//
// The merge is three-way: the edits that turned the ancestor (the output the
// region was last generated from) into the live region are replayed on top of
// the fresh output. A region that lost one of its delimiters is never merged.
package reconcile

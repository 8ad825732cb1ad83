// Package tracking resolves versioned spans against later document versions.
//
// A span recorded at one version is mapped forward by folding every change of
// every delta recorded since. Points before a change stay put, points after it
// shift by the change's length difference, and points that touch the change
// follow a gravity chosen by the span's edge policy:
//
//	inclusive: start sticks left, end sticks right  (insertions at edges are absorbed)
//	exclusive: start sticks right, end sticks left  (insertions at edges stay outside)
package tracking

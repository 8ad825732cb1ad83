// Package scanner performs the full-document scan that rebuilds the block list.
package scanner

package graft

import (
	"fmt"
	"io"
)

// Runner pipes a document through the engine: it reads Input, brings every
// generated region up to date and writes the result to Output.
// This allows for easy testing and integration with different frontends
// (CLI filters, editor format-on-save hooks).
type Runner struct {
	Input   io.Reader
	Output  io.Writer
	Options []Option
}

// NewRunner creates a Runner applying opts to every engine it opens.
// Input and Output must be set before Run.
func NewRunner(opts ...Option) *Runner {
	return &Runner{Options: opts}
}

// Run processes one document. It reports whether the output differs from the input.
func (r *Runner) Run() (bool, error) {
	if r.Input == nil {
		return false, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return false, fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	data, err := io.ReadAll(r.Input)
	if err != nil {
		return false, fmt.Errorf("input error: %w", err)
	}

	out, genErr := Generate(string(data), r.Options...)
	// Structural damage still yields the untouched text.
	if out == "" && genErr != nil {
		return false, genErr
	}
	if _, err := io.WriteString(r.Output, out); err != nil {
		return false, fmt.Errorf("output error: %w", err)
	}
	return out != string(data), genErr
}

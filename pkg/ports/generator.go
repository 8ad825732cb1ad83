package ports

// Generator compiles the text of a source block into generated code.
// Implementations must be deterministic and free of shared mutable state.
// ok is false when the source is not recognized; the engine then leaves any
// existing region as it is.
type Generator interface {
	Compile(source string) (code string, ok bool)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(source string) (string, bool)

// Compile calls f.
func (f GeneratorFunc) Compile(source string) (string, bool) {
	return f(source)
}

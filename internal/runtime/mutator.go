package runtime

import (
	"github.com/aretw0/graft/pkg/domain"
)

// selfMutate runs fn in StateSelfMutating. The state is restored even if fn panics.
func (e *Engine) selfMutate(fn func()) {
	e.state.Store(int32(StateSelfMutating))
	defer e.state.Store(int32(StateIdle))
	fn()
}

// insert writes text at pos of the current snapshot.
func (e *Engine) insert(pos int, text string) (*domain.Snapshot, error) {
	return e.doc.Insert(pos, text)
}

// replace rewrites span, whose current text is old, with text. Only the
// range between the common prefix and suffix is touched, so positions
// outside the actual difference keep their tracking.
func (e *Engine) replace(span domain.Span, old, text string) (*domain.Snapshot, error) {
	p := commonPrefix(old, text)
	s := commonSuffix(old[p:], text[p:])
	edit := domain.NewSpan(span.Start+p, span.End-s)
	return e.doc.Replace(edit, text[p:len(text)-s])
}

// deleteRegion removes span together with the line break that precedes it.
func (e *Engine) deleteRegion(snap *domain.Snapshot, span domain.Span) (*domain.Snapshot, error) {
	text := snap.Text()
	start := span.Start
	switch {
	case start >= 2 && text[start-2:start] == "\r\n":
		start -= 2
	case start >= 1 && text[start-1] == '\n':
		start--
	}
	return e.doc.Replace(domain.NewSpan(start, span.End), "")
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}

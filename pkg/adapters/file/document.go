package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Document is a memory buffer backed by a file. Its ID is the absolute path.
type Document struct {
	*memory.Buffer
	path string

	mu     sync.Mutex
	disk   string // content last read from or written to the file
	perm   os.FileMode
	differ *diffmatchpatch.DiffMatchPatch
}

// Load reads path into a new Document.
func Load(path string, opts ...memory.BufferOption) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	opts = append([]memory.BufferOption{memory.WithID(abs)}, opts...)
	return &Document{
		Buffer: memory.NewBuffer(string(data), opts...),
		path:   abs,
		disk:   string(data),
		perm:   info.Mode().Perm(),
		differ: diffmatchpatch.New(),
	}, nil
}

// Path returns the absolute file path.
func (d *Document) Path() string {
	return d.path
}

// Modified reports whether the buffer differs from the file content last seen.
func (d *Document) Modified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Text() != d.disk
}

// Save writes the buffer to the file through a temporary file and a rename.
func (d *Document) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	text := d.Text()
	if text == d.disk {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), "."+filepath.Base(d.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", d.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save %s: %w", d.path, err)
	}
	if err := tmp.Chmod(d.perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save %s: %w", d.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save %s: %w", d.path, err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", d.path, err)
	}
	d.disk = text
	return nil
}

// Sync reads the file and applies the difference to the buffer as one batch.
// It reports whether the buffer changed. Content the document wrote itself,
// or already holds, is ignored.
func (d *Document) Sync() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", d.path, err)
	}
	onDisk := string(data)
	if onDisk == d.disk {
		return false, nil
	}
	d.disk = onDisk

	current := d.Text()
	if onDisk == current {
		return false, nil
	}
	if _, err := d.Apply(Edits(d.differ, current, onDisk)...); err != nil {
		return false, fmt.Errorf("failed to apply %s: %w", d.path, err)
	}
	return true, nil
}

// Edits converts the character diff from a to b into edits against a.
func Edits(dmp *diffmatchpatch.DiffMatchPatch, a, b string) []domain.Edit {
	diffs := dmp.DiffMain(a, b, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var (
		edits   []domain.Edit
		pending *domain.Edit
		pos     int
	)
	flush := func() {
		if pending != nil {
			edits = append(edits, *pending)
			pending = nil
		}
	}
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			pos += len(diff.Text)
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &domain.Edit{Span: domain.NewSpan(pos, pos)}
			}
			pending.Span.End += len(diff.Text)
			pos += len(diff.Text)
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &domain.Edit{Span: domain.NewSpan(pos, pos)}
			}
			pending.Text += diff.Text
		}
	}
	flush()
	return edits
}

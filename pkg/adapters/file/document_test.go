package file_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/graft/internal/runtime"
	"github.com/aretw0/graft/pkg/adapters/file"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestDocument_Contract(t *testing.T) {
	ports.RunDocumentContract(t, func(text string) ports.Document {
		path := filepath.Join(t.TempDir(), "doc.cs")
		writeFile(t, path, text)
		doc, err := file.Load(path)
		require.NoError(t, err)
		return doc
	})
}

func TestDocument_LoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.cs")
	writeFile(t, path, "hello\n")

	doc, err := file.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path())
	assert.Equal(t, path, doc.ID())
	assert.False(t, doc.Modified())

	_, err = doc.Insert(0, "// ")
	require.NoError(t, err)
	assert.True(t, doc.Modified())

	require.NoError(t, doc.Save())
	assert.False(t, doc.Modified())
	assert.Equal(t, "// hello\n", readFile(t, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file is left behind")

	_, err = file.Load(filepath.Join(t.TempDir(), "missing.cs"))
	assert.Error(t, err)
}

func TestDocument_Sync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.cs")
	writeFile(t, path, "one\ntwo\nthree\n")
	doc, err := file.Load(path)
	require.NoError(t, err)

	var events []domain.ChangeEvent
	cancel := doc.Subscribe(func(e domain.ChangeEvent) { events = append(events, e) })
	defer cancel()

	changed, err := doc.Sync()
	require.NoError(t, err)
	assert.False(t, changed, "unchanged file")

	writeFile(t, path, "one\n2\nthree\nfour\n")
	changed, err = doc.Sync()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "one\n2\nthree\nfour\n", doc.Text())
	require.Len(t, events, 1, "an external rewrite arrives as one batch")
	assert.NotEmpty(t, events[0].Changes)

	// Our own save is not applied twice.
	_, err = doc.Insert(0, "zero\n")
	require.NoError(t, err)
	require.NoError(t, doc.Save())
	changed, err = doc.Sync()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDocument_SyncRegeneratesBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.cs")
	writeFile(t, path, "//` Foo(int x)\n")
	doc, err := file.Load(path)
	require.NoError(t, err)

	engine, err := runtime.NewEngine(doc)
	require.NoError(t, err)
	defer engine.Close()
	require.NoError(t, doc.Save())
	generated := readFile(t, path)
	require.Contains(t, generated, "public int X { get; }")

	// Another tool renames the parameter on disk.
	writeFile(t, path, strings.Replace(generated, "int x)", "int count)", 1))
	changed, err := doc.Sync()
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Contains(t, doc.Text(), "public int Count { get; }")
	assert.NotContains(t, doc.Text(), "public int X { get; }")
	assert.True(t, doc.Modified())
	require.NoError(t, doc.Save())
	assert.Equal(t, doc.Text(), readFile(t, path))
}

func TestEdits(t *testing.T) {
	dmp := diffmatchpatch.New()
	tests := []struct {
		name string
		a, b string
	}{
		{"identical", "same", "same"},
		{"insert", "ac", "abc"},
		{"delete", "abc", "ac"},
		{"replace", "hello world", "hello there"},
		{"several", "one two three four", "1 two 3 four five"},
		{"multibyte", "naïve café", "naive cafe"},
		{"from empty", "", "new text"},
		{"to empty", "old text", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edits := file.Edits(dmp, tt.a, tt.b)
			assert.Equal(t, tt.b, apply(tt.a, edits))
			if tt.a == tt.b {
				assert.Empty(t, edits)
			}
		})
	}
}

// apply performs edits, all measured against text, last first.
func apply(text string, edits []domain.Edit) string {
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		text = text[:e.Span.Start] + e.Text + text[e.Span.End:]
	}
	return text
}

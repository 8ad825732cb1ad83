package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.cs", source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- RunWatch(ctx, WatchOptions{
			Files:  []string{path},
			Listen: "127.0.0.1:0",
			Quiet:  true,
			Ready:  func(addr string) { ready <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("watch stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not start")
	}

	// Attaching generates the missing region and saves it.
	generated := read(t, path)
	require.Contains(t, generated, "public int X { get; }")

	resp, err := http.Get("http://" + addr + "/documents")
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	resp.Body.Close()
	require.Len(t, docs, 1)
	assert.Equal(t, path, docs[0]["id"])

	// An external edit to the source is picked up and regenerated on disk.
	edited := strings.Replace(generated, "Foo(int x)", "Foo(int count)", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))
	assert.Eventually(t, func() bool {
		return strings.Contains(read(t, path), "public int Count { get; }")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestRunWatch_NoFiles(t *testing.T) {
	assert.Error(t, RunWatch(context.Background(), WatchOptions{Quiet: true}))
}

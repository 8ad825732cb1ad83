package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(in))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graft version "))
}

func TestGenerateCommand_Stdin(t *testing.T) {
	out, err := execute(t, "//` Foo(int x)\n", "generate", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "#region generated code")
}

func TestScanCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.cs")
	require.NoError(t, os.WriteFile(path, []byte("//` Foo(int x)\n"), 0o644))

	out, err := execute(t, "", "scan", "--format", "mermaid", path)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")

	_, err = execute(t, "", "scan")
	assert.Error(t, err)
}

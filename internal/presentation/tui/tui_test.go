package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "v0.1.0")
}

func TestNewRenderer(t *testing.T) {
	plain := tui.NewRenderer(false)
	out, err := plain("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)

	styled := tui.NewRenderer(true)
	out, err = styled("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body")
}

func TestStatus(t *testing.T) {
	assert.Contains(t, tui.Status(true, "ok"), "ok")
	assert.Contains(t, tui.Status(false, "stale"), "stale")
}

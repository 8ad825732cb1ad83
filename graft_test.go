package graft_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/config"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Idempotent(t *testing.T) {
	once, err := graft.Generate("class Host\n{\n//` Foo(int x, string y)\n}\n")
	require.NoError(t, err)
	twice, err := graft.Generate(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestGenerate_Unterminated(t *testing.T) {
	input := "//` Foo(int x)\n#region generated code\nstale\n"
	out, err := graft.Generate(input)

	require.ErrorIs(t, err, domain.ErrMalformedBlock)
	assert.Contains(t, err.Error(), "document structure needs repair")
	assert.Equal(t, input, out, "damaged documents are left untouched")
}

func TestGenerate_ManyBlocks(t *testing.T) {
	var input strings.Builder
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&input, "//` P%d(int x)\nint gap%d;\n", i, i)
	}
	out, err := graft.Generate(input.String())

	require.NoError(t, err)
	assert.Equal(t, 300, strings.Count(out, domain.DefaultConventions().OpenDelimiter()))
	assert.Equal(t, 300, strings.Count(out, domain.DefaultConventions().CloseDelimiter()))
}

func TestAttach_Options(t *testing.T) {
	var rescans int
	gen := ports.GeneratorFunc(func(source string) (string, bool) {
		return strings.ToUpper(source), true
	})
	buf := memory.NewBuffer("#> hello\n")

	eng, err := graft.Attach(buf,
		graft.WithGenerator(gen),
		graft.WithConventions(domain.Conventions{Marker: "#>", RegionName: "out"}),
		graft.WithLifecycleHooks(domain.LifecycleHooks{
			OnRescan: func(*domain.RescanEvent) { rescans++ },
		}),
	)
	require.NoError(t, err)
	defer eng.Close()

	assert.Equal(t, "#> hello\n#region out\nHELLO\n#endregion // out\n", buf.Text())
	assert.Equal(t, 1, rescans)
	assert.Same(t, ports.Document(buf), eng.Document())
	assert.True(t, eng.Settled())
}

func TestAttach_ConfigAndOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Marker = "#>"
	cfg.NoMatchPolicy = domain.NoMatchRemove

	eng, buf, err := graft.Open("#> Foo(int x)\n", graft.WithConfig(cfg))
	require.NoError(t, err)
	defer eng.Close()
	require.Contains(t, buf.Text(), "public class Foo")

	// Breaking the source removes the region under the configured policy.
	at := strings.Index(buf.Text(), ")")
	_, err = buf.Replace(domain.NewSpan(at, at+1), "")
	require.NoError(t, err)
	assert.Equal(t, "#> Foo(int x\n", buf.Text())

	// An explicit option wins over the config.
	eng2, buf2, err := graft.Open("#> Foo(int x)\n",
		graft.WithConfig(cfg), graft.WithNoMatchPolicy(domain.NoMatchPreserve))
	require.NoError(t, err)
	defer eng2.Close()
	at = strings.Index(buf2.Text(), ")")
	_, err = buf2.Replace(domain.NewSpan(at, at+1), "")
	require.NoError(t, err)
	assert.Contains(t, buf2.Text(), "public class Foo")
}

func TestAttach_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Marker = ""
	_, _, err := graft.Open("", graft.WithConfig(cfg))
	assert.ErrorIs(t, err, domain.ErrInvalidConventions)

	cfg = config.Default()
	cfg.Generators = []config.RuleConfig{{Name: "bad", Pattern: "(", Template: "x"}}
	_, _, err = graft.Open("", graft.WithConfig(cfg))
	assert.Error(t, err)
}

func TestRunner(t *testing.T) {
	var out bytes.Buffer
	r := graft.NewRunner()
	r.Input = strings.NewReader("//` Foo(int x)\n")
	r.Output = &out

	changed, err := r.Run()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, out.String(), "public class Foo")

	// Feeding the output back is a no-op.
	again := graft.NewRunner()
	again.Input = strings.NewReader(out.String())
	var second bytes.Buffer
	again.Output = &second
	changed, err = again.Run()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, out.String(), second.String())
}

func TestRunner_RequiresIO(t *testing.T) {
	_, err := graft.NewRunner().Run()
	assert.Error(t, err)

	r := graft.NewRunner()
	r.Input = strings.NewReader("")
	_, err = r.Run()
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestRunner_InputError(t *testing.T) {
	r := graft.NewRunner()
	r.Input = failingReader{}
	r.Output = &bytes.Buffer{}
	_, err := r.Run()
	assert.ErrorContains(t, err, "disk on fire")
}

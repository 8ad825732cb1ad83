package reconcile_test

import (
	"strings"
	"testing"

	"github.com/aretw0/graft/internal/reconcile"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conv = domain.DefaultConventions()

func region(t *testing.T, source string) string {
	t.Helper()
	code, ok := registry.Default().Compile(source)
	require.True(t, ok)
	return conv.Wrap(code, "\n")
}

func TestMerge_FastPaths(t *testing.T) {
	r := reconcile.New(conv, nil)
	ancestor := region(t, "Foo(int x)")
	fresh := region(t, "Foo(int x, int y)")

	t.Run("untouched region takes fresh output", func(t *testing.T) {
		res := r.Merge(ancestor, ancestor, fresh)
		assert.Equal(t, fresh, res.Text)
		assert.True(t, res.Changed)
		assert.False(t, res.Damaged)
	})

	t.Run("unchanged output keeps the live region", func(t *testing.T) {
		live := strings.Replace(ancestor, "X = x;", "X = x; // checked", 1)
		res := r.Merge(ancestor, live, ancestor)
		assert.Equal(t, live, res.Text)
		assert.False(t, res.Changed)
	})

	t.Run("idempotent", func(t *testing.T) {
		res := r.Merge(fresh, fresh, fresh)
		assert.Equal(t, fresh, res.Text)
		assert.False(t, res.Changed)
	})
}

func TestMerge_PreservesUserEdit(t *testing.T) {
	r := reconcile.New(conv, reconcile.NewPatchDiffer())
	ancestor := region(t, "Foo(int x)")
	live := strings.Replace(ancestor, "    public int X { get; }\n", "    public int X { get; }\n    // hand-written\n", 1)
	fresh := region(t, "Foo(int x, int y)")

	res := r.Merge(ancestor, live, fresh)

	assert.False(t, res.Damaged)
	assert.False(t, res.Fallback)
	assert.Zero(t, res.Failed)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Text, "// hand-written")
	assert.Contains(t, res.Text, "public int Y { get; }")
	assert.Contains(t, res.Text, "public Foo(int x, int y)")
	assert.True(t, r.Intact(res.Text))
}

func TestMerge_DamagedRegion(t *testing.T) {
	r := reconcile.New(conv, nil)
	ancestor := region(t, "Foo(int x)")
	fresh := region(t, "Foo(int x, int y)")

	for name, live := range map[string]string{
		"closer edited": strings.Replace(ancestor, "#endregion // generated code", "#endregion // generated co", 1),
		"closer gone":   strings.TrimSuffix(ancestor, "\n#endregion // generated code"),
		"opener edited": strings.Replace(ancestor, "#region", "#regio", 1),
	} {
		t.Run(name, func(t *testing.T) {
			res := r.Merge(ancestor, live, fresh)
			assert.True(t, res.Damaged)
			assert.False(t, res.Changed)
			assert.Equal(t, live, res.Text)
		})
	}
}

type brokenDiffer struct{}

type script struct{}

func (script) Empty() bool { return false }

func (brokenDiffer) Diff(string, string) ports.EditScript { return script{} }

func (brokenDiffer) Apply(ports.EditScript, string) (string, int) {
	return "#region generated code\nno closer", 0
}

func TestMerge_FallbackOnBrokenResult(t *testing.T) {
	r := reconcile.New(conv, brokenDiffer{})
	ancestor := region(t, "Foo(int x)")
	live := strings.Replace(ancestor, "X = x;", "X = x * 2;", 1)
	fresh := region(t, "Foo(int x, int y)")

	res := r.Merge(ancestor, live, fresh)
	assert.True(t, res.Fallback)
	assert.Equal(t, fresh, res.Text)
}

func TestIntact(t *testing.T) {
	r := reconcile.New(conv, nil)
	assert.True(t, r.Intact("#region generated code\r\nx\r\n#endregion // generated code"))
	assert.True(t, r.Intact("#region generated code\n#endregion//generated code"))
	assert.False(t, r.Intact("#region generated code"))
	assert.False(t, r.Intact("#region generated code\n#endregion // generated code\nx\n#endregion // generated code"))
	assert.False(t, r.Intact("#region generated code\nx\n#endregion generated\n//` B()\n#region generated code\n#endregion // generated code"),
		"a region spanning another region is damaged")
}

func TestPatchDiffer(t *testing.T) {
	d := reconcile.NewPatchDiffer()

	s := d.Diff("same", "same")
	assert.True(t, s.Empty())
	out, failed := d.Apply(s, "other")
	assert.Equal(t, "other", out)
	assert.Zero(t, failed)

	s = d.Diff("alpha beta gamma", "alpha BETA gamma")
	assert.False(t, s.Empty())
	out, failed = d.Apply(s, "alpha beta gamma delta")
	assert.Equal(t, "alpha BETA gamma delta", out)
	assert.Zero(t, failed)

	out, failed = d.Apply(script{}, "text")
	assert.Equal(t, "text", out)
	assert.Equal(t, 1, failed)
}

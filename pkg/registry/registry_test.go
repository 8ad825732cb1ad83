package registry_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/aretw0/graft/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassRule_FooScenario(t *testing.T) {
	reg := registry.Default()

	code, ok := reg.Compile(" Foo(int x, string y)")
	require.True(t, ok)
	assert.Equal(t, `public class Foo
{
    public Foo(int x, string y)
    {
        X = x;
        Y = y;
    }

    public int X { get; }
    public string Y { get; }
}`, code)
}

func TestClassRule_Variants(t *testing.T) {
	reg := registry.Default()

	t.Run("no arguments", func(t *testing.T) {
		code, ok := reg.Compile("Empty()")
		require.True(t, ok)
		assert.Equal(t, "public class Empty\n{\n    public Empty()\n    {\n    }\n}", code)
	})

	t.Run("generic argument", func(t *testing.T) {
		code, ok := reg.Compile("Bag(Dictionary<string, int> items, List<int> ids);")
		require.True(t, ok)
		assert.Contains(t, code, "public Bag(Dictionary<string, int> items, List<int> ids)")
		assert.Contains(t, code, "public Dictionary<string, int> Items { get; }")
	})

	t.Run("multi-line source", func(t *testing.T) {
		code, ok := reg.Compile(" Point(int x,\n int y)")
		require.True(t, ok)
		assert.Contains(t, code, "public Point(int x, int y)")
	})

	for _, src := range []string{"", "Foo", "Foo(int)", "Foo(int x, int x)", "foo bar(int x)", "Foo(int 1x)"} {
		t.Run("no match "+src, func(t *testing.T) {
			_, ok := reg.Compile(src)
			assert.False(t, ok)
		})
	}
}

func TestRegistry_Ordering(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(registry.Rule{
		Name:    "first",
		Pattern: regexp.MustCompile(`^a`),
		Compile: func([]string) (string, error) { return "first", nil },
	}))
	require.NoError(t, reg.Register(registry.Rule{
		Name:    "second",
		Pattern: regexp.MustCompile(`^ab`),
		Compile: func([]string) (string, error) { return "second", nil },
	}))

	out, ok := reg.Compile("abc")
	require.True(t, ok)
	assert.Equal(t, "first", out)

	// Replacing keeps priority.
	require.NoError(t, reg.Register(registry.Rule{
		Name:    "first",
		Pattern: regexp.MustCompile(`^x`),
		Compile: func([]string) (string, error) { return "x", nil },
	}))
	assert.Equal(t, []string{"first", "second"}, reg.Rules())
	out, _ = reg.Compile("abc")
	assert.Equal(t, "second", out)

	assert.Error(t, reg.Register(registry.Rule{Name: "broken"}))
}

func TestRegistry_FailuresAreNoMatch(t *testing.T) {
	reg := registry.NewRegistry()
	_ = reg.Register(registry.Rule{
		Name:    "err",
		Pattern: regexp.MustCompile(`^err$`),
		Compile: func([]string) (string, error) { return "", errors.New("boom") },
	})
	_ = reg.Register(registry.Rule{
		Name:    "panic",
		Pattern: regexp.MustCompile(`^panic$`),
		Compile: func([]string) (string, error) { panic("boom") },
	})

	_, ok := reg.Compile("err")
	assert.False(t, ok)
	_, ok = reg.Compile("panic")
	assert.False(t, ok)
}

func TestTemplateRule(t *testing.T) {
	rule, err := registry.TemplateRule("enum", `^enum (?P<name>\w+) \{(.*)\}$`,
		`public enum {{.Named.name}} { {{join ", " (split (index .Groups 2) " ")}} }`)
	require.NoError(t, err)

	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(rule))

	out, ok := reg.Compile("  enum Color {Red Green}")
	require.True(t, ok)
	assert.Equal(t, "public enum Color { Red, Green }", out)

	_, err = registry.TemplateRule("bad", `(`, "")
	assert.Error(t, err)
	_, err = registry.TemplateRule("bad", `x`, "{{")
	assert.Error(t, err)
}

package registry

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/ports"
)

// CompileFunc renders generated code from the submatches of a rule's pattern.
// match[0] is the whole source; match[i] is the i-th capture group.
type CompileFunc func(match []string) (string, error)

// Rule pairs a source pattern with the function that compiles it.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Compile CompileFunc
}

// Registry manages the generator rules. Rules are tried in registration order
// and the first one whose pattern matches the trimmed source wins.
type Registry struct {
	mu     sync.RWMutex
	rules  []Rule
	logger *slog.Logger
}

var _ ports.Generator = (*Registry)(nil)

// Option configures the Registry.
type Option func(*Registry)

// WithLogger configures a logger for compile failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default creates a registry holding the built-in rules.
func Default(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	_ = r.Register(ClassRule())
	return r
}

// Register adds a rule to the registry.
// If a rule with the same name exists, it is replaced in place and keeps its priority.
func (r *Registry) Register(rule Rule) error {
	if rule.Name == "" || rule.Pattern == nil || rule.Compile == nil {
		return fmt.Errorf("invalid rule %q: name, pattern and compile are required", rule.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rules {
		if r.rules[i].Name == rule.Name {
			r.rules[i] = rule
			return nil
		}
	}
	r.rules = append(r.rules, rule)
	return nil
}

// Rules returns the rule names in priority order.
func (r *Registry) Rules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}

// Match returns the first rule whose pattern matches source, with its submatches.
func (r *Registry) Match(source string) (Rule, []string, bool) {
	source = strings.TrimSpace(source)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if m := rule.Pattern.FindStringSubmatch(source); m != nil {
			return rule, m, true
		}
	}
	return Rule{}, nil, false
}

// Compile implements ports.Generator. A matching rule that fails or panics
// counts as no match.
func (r *Registry) Compile(source string) (code string, ok bool) {
	rule, match, found := r.Match(source)
	if !found {
		return "", false
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Generator rule panicked", "rule", rule.Name, "panic", rec)
			code, ok = "", false
		}
	}()

	out, err := rule.Compile(match)
	if err != nil {
		r.logger.Debug("Generator rule rejected source", "rule", rule.Name, "err", err)
		return "", false
	}
	return out, true
}

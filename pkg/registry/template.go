package registry

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// TemplateData is passed to template rules.
type TemplateData struct {
	// Source is the whole trimmed source block.
	Source string
	// Groups holds the capture groups by position, starting at 1.
	Groups []string
	// Named holds the named capture groups.
	Named map[string]string
}

// TemplateRule builds a rule that renders tmpl with text/template.
// Templates get strings helpers: upper, lower, title, trim, split and join.
func TemplateRule(name, pattern, tmpl string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: invalid pattern: %w", name, err)
	}
	t, err := template.New(name).Option("missingkey=error").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": property,
		"trim":  strings.TrimSpace,
		"split": strings.Split,
		"join":  func(sep string, parts []string) string { return strings.Join(parts, sep) },
	}).Parse(tmpl)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: invalid template: %w", name, err)
	}

	return Rule{
		Name:    name,
		Pattern: re,
		Compile: func(match []string) (string, error) {
			data := TemplateData{Source: match[0], Groups: match, Named: make(map[string]string)}
			for i, group := range re.SubexpNames() {
				if group != "" && i < len(match) {
					data.Named[group] = match[i]
				}
			}
			var sb strings.Builder
			if err := t.Execute(&sb, data); err != nil {
				return "", err
			}
			return sb.String(), nil
		},
	}, nil
}

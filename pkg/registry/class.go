package registry

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var classPattern = regexp.MustCompile(`^([A-Za-z_]\w*)\s*\(([^()]*)\)\s*;?$`)

// ClassRule compiles `Name(type a, type b)` into a class with a constructor
// and one get-only property per argument.
func ClassRule() Rule {
	return Rule{
		Name:    "class",
		Pattern: classPattern,
		Compile: compileClass,
	}
}

type param struct {
	Type string
	Name string
}

func compileClass(match []string) (string, error) {
	name := match[1]
	params, err := parseParams(match[2])
	if err != nil {
		return "", err
	}

	decl := make([]string, len(params))
	for i, p := range params {
		decl[i] = p.Type + " " + p.Name
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "public class %s\n{\n", name)
	fmt.Fprintf(&sb, "    public %s(%s)\n    {\n", name, strings.Join(decl, ", "))
	for _, p := range params {
		fmt.Fprintf(&sb, "        %s = %s;\n", property(p.Name), p.Name)
	}
	sb.WriteString("    }\n")
	if len(params) > 0 {
		sb.WriteString("\n")
	}
	for _, p := range params {
		fmt.Fprintf(&sb, "    public %s %s { get; }\n", p.Type, property(p.Name))
	}
	sb.WriteString("}")
	return sb.String(), nil
}

// parseParams splits at top-level commas so generic arguments stay whole.
func parseParams(list string) ([]param, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	var raw []string
	depth, last := 0, 0
	for i, r := range list {
		switch r {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
		case ',':
			if depth == 0 {
				raw = append(raw, list[last:i])
				last = i + 1
			}
		}
	}
	raw = append(raw, list[last:])

	params := make([]param, 0, len(raw))
	seen := make(map[string]bool)
	for _, arg := range raw {
		fields := strings.Fields(arg)
		if len(fields) < 2 {
			return nil, fmt.Errorf("parameter %q needs a type and a name", strings.TrimSpace(arg))
		}
		p := param{Type: strings.Join(fields[:len(fields)-1], " "), Name: fields[len(fields)-1]}
		if !isIdent(p.Name) {
			return nil, fmt.Errorf("invalid parameter name %q", p.Name)
		}
		if seen[property(p.Name)] {
			return nil, fmt.Errorf("duplicate property %q", property(p.Name))
		}
		seen[property(p.Name)] = true
		params = append(params, p)
	}
	return params, nil
}

func property(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func isIdent(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return s != ""
}

package domain

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// DefaultMarker prefixes every line of a source block.
	DefaultMarker = "//`"
	// DefaultRegionName names the region that holds generated code.
	DefaultRegionName = "generated code"
)

// Conventions holds the literals that delimit source blocks and generated regions.
type Conventions struct {
	Marker     string `json:"marker" mapstructure:"marker"`
	RegionName string `json:"region_name" mapstructure:"region_name"`
}

// DefaultConventions returns the marker "//`" and the region "generated code".
func DefaultConventions() Conventions {
	return Conventions{Marker: DefaultMarker, RegionName: DefaultRegionName}
}

// Validate checks that the conventions can delimit a block unambiguously.
func (c Conventions) Validate() error {
	if strings.TrimSpace(c.Marker) == "" {
		return fmt.Errorf("%w: empty marker", ErrInvalidConventions)
	}
	if c.Marker != strings.TrimSpace(c.Marker) {
		return fmt.Errorf("%w: marker %q has surrounding whitespace", ErrInvalidConventions, c.Marker)
	}
	if strings.TrimSpace(c.RegionName) == "" {
		return fmt.Errorf("%w: empty region name", ErrInvalidConventions)
	}
	if strings.ContainsAny(c.Marker+c.RegionName, "\r\n") {
		return fmt.Errorf("%w: line break in marker or region name", ErrInvalidConventions)
	}
	return nil
}

// OpenDelimiter returns the line that opens a generated region.
func (c Conventions) OpenDelimiter() string {
	return "#region " + c.RegionName
}

// CloseDelimiter returns the line that closes a generated region.
func (c Conventions) CloseDelimiter() string {
	return "#endregion // " + c.RegionName
}

// IsMarkerLine reports whether the trimmed line starts with the marker.
func (c Conventions) IsMarkerLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), c.Marker)
}

// StripMarker trims the line and removes the marker prefix together with one
// space after it, so deeper indentation inside the block survives.
// ok is false when the line is not a marker line.
func (c Conventions) StripMarker(line string) (string, bool) {
	body, ok := strings.CutPrefix(strings.TrimSpace(line), c.Marker)
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(body, " "), true
}

// IsOpenLine reports whether the trimmed line is exactly the opening delimiter.
func (c Conventions) IsOpenLine(line string) bool {
	return strings.TrimSpace(line) == c.OpenDelimiter()
}

// IsCloseLine reports whether the line equals the closing delimiter once all
// whitespace is removed from both.
func (c Conventions) IsCloseLine(line string) bool {
	return squash(line) == squash(c.CloseDelimiter())
}

// Wrap encloses body in the region delimiters using br as the line break.
func (c Conventions) Wrap(body, br string) string {
	body = strings.TrimRight(body, "\r\n")
	var sb strings.Builder
	sb.WriteString(c.OpenDelimiter())
	sb.WriteString(br)
	if body != "" {
		sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", br))
		sb.WriteString(br)
	}
	sb.WriteString(c.CloseDelimiter())
	return sb.String()
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

package domain

import "fmt"

// OrphanPolicy decides what happens to a generated region whose source block was deleted.
type OrphanPolicy string

const (
	// OrphanKeep leaves the region in the document.
	OrphanKeep OrphanPolicy = "keep"
	// OrphanRemove deletes the region during the rescan that lost its block.
	OrphanRemove OrphanPolicy = "remove"
)

// UnmarshalText accepts "keep" or "remove". Empty input selects OrphanKeep.
func (p *OrphanPolicy) UnmarshalText(text []byte) error {
	switch v := OrphanPolicy(text); v {
	case "":
		*p = OrphanKeep
	case OrphanKeep, OrphanRemove:
		*p = v
	default:
		return fmt.Errorf("invalid orphan policy %q (want keep or remove)", string(text))
	}
	return nil
}

// NoMatchPolicy decides what happens to an existing region when the generator
// no longer recognizes its source block.
type NoMatchPolicy string

const (
	// NoMatchPreserve leaves the region untouched.
	NoMatchPreserve NoMatchPolicy = "preserve"
	// NoMatchRemove deletes the region.
	NoMatchRemove NoMatchPolicy = "remove"
)

// UnmarshalText accepts "preserve" or "remove". Empty input selects NoMatchPreserve.
func (p *NoMatchPolicy) UnmarshalText(text []byte) error {
	switch v := NoMatchPolicy(text); v {
	case "":
		*p = NoMatchPreserve
	case NoMatchPreserve, NoMatchRemove:
		*p = v
	default:
		return fmt.Errorf("invalid no-match policy %q (want preserve or remove)", string(text))
	}
	return nil
}

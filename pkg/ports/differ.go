package ports

// EditScript is an opaque description of how one text turns into another.
type EditScript interface {
	// Empty reports whether the script changes nothing.
	Empty() bool
}

// Differ is the diff/patch primitive used by reconciliation.
type Differ interface {
	// Diff computes the script that turns from into to.
	Diff(from, to string) EditScript

	// Apply replays script on text. Hunks that cannot be located are skipped
	// and counted in failed.
	Apply(script EditScript, text string) (result string, failed int)
}

/*
Package graft keeps generated code inside a text document in sync with the
source blocks that describe it.

A source block is a run of lines prefixed with a marker (by default "//`").
Right below each block the engine maintains a generated region, delimited by
"#region generated code" and "#endregion // generated code", holding the
output of a generator for the block's text. The engine listens to the
document's edits: editing a block regenerates its region, editing inside a
region is kept across later regenerations through a three-way merge, and
structural edits (markers, delimiters, block boundaries) trigger a full
rescan.

# Key Features

  - Incremental: only blocks whose source was edited are regenerated.
  - Stable positions: spans are tracked across versions, so blocks outside an
    edit keep their identity.
  - Manual edits survive: changes made inside a region are carried into fresh
    output when they still apply.
  - Self-edit safe: the engine's own writes never re-trigger it.

# Usage

For one-shot processing, Generate takes a text and returns it with every
region up to date:

	out, err := graft.Generate("//` Point(int x, int y)\n")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(out)

Hosts that own a live document (an editor buffer, a file kept open by a
watcher) implement ports.Document and Attach an engine to it:

	eng, err := graft.Attach(doc, graft.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()
*/
package graft

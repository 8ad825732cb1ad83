/*
Package ports defines the driven ports (interfaces) of the graft engine.

These interfaces decouple the synchronization core from the host that owns the
text, from the code generator, and from the diff/patch primitive used to merge
manual edits into regenerated code.

# Key Interfaces

  - Document: a versioned text buffer that publishes change events.
  - History: access to the deltas recorded after a version.
  - Generator: a pure function from source block text to generated code.
  - Differ: computes an edit script between two texts and replays it on a third.
*/
package ports

/*
Package model implements the form model tree: a root Model owning a plain value
tree, sub-models addressing regions of it, and Fields binding UI controls to paths.

Model shapes are inferred lazily. A model starts unresolved and becomes array or
object shaped the first time it is addressed by a numeric or named segment; after
that the shape never changes and conflicting access fails with a ShapeConflictError.

	root := model.NewRoot(nil)
	bar, _ := root.SubModel("foo.bar")
	buzz, _ := bar.Field("buzz")
	_ = buzz.SetValue("x")
	// root.Values() == {"foo": {"bar": {"buzz": "x"}}}

Fields come in three kinds: normal fields address one path, tuple fields read and
write several sibling paths as one list, and computed fields derive their value
from a getter. Every field may be forked; forks share the value accessor but keep
independent mount and validation state.

Validation runs are fenced per field instance: starting a run cancels the context
of the previous one and its result is dropped whenever it arrives.
*/
package model

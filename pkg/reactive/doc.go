/*
Package reactive is the small observable substrate the form model is built on.

It provides the four contracts the model needs:

  - observable reads: Scope.Observe records which value-tree paths a derivation read;
    Cell holds an observable value outside the tree.
  - computed values: Computed re-derives only after one of its inputs changed.
  - atomic batches: Scope.Batch coalesces writes so dependents see one notification.
  - reactions: Scope.React re-runs an expression after relevant writes and fires its
    effect when the result differs, optionally once immediately.

Dependencies are tracked by path. A write to "user" affects readers of "user.name"
and the reverse, since either path is a prefix of the other.
*/
package reactive

// Package form runs whole-tree operations over a model: clearing errors, validating
// every mounted field, submitting and resetting. Env carries the callbacks and
// defaults that a form hands down to its bindings.
package form

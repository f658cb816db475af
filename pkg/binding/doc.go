/*
Package binding connects form fields to rendered controls.

A Binding resolves its field (by name, by handle, or "&" for the current model),
merges the field config from the binding kind, the form env and its own options,
and drives the mount lifecycle: Mount tracks the field, optionally writes an
explicit default into the model and starts mount validation; the returned unmount
func cancels that validation and untracks the field.

Watch runs side effects when watched values change, once per batched write.
*/
package binding

/*
Package valuepath parses path strings and reads or writes plain value trees.

A value tree is built from map[string]any (objects) and []any (arrays). Paths are
dot separated ("user.tags.0.name"); bracket indexes ("tags[0]") are accepted on input.
A purely numeric segment addresses an array index and therefore implies an array shaped
container; any other segment implies an object.

	tree, _ := valuepath.SetIn(nil, valuepath.Split("foo.bar.buzz"), "x")
	// tree == map[string]any{"foo": map[string]any{"bar": map[string]any{"buzz": "x"}}}
*/
package valuepath

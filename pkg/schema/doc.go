// Package schema provides a small type system for form values.
//
// Types are the built-ins string, int, float, bool, date and any, plus lists of
// them and custom validators. A Schema maps dotted value-tree paths to types and
// validates a whole tree at once:
//
//	s, err := schema.ParseTypeMap(map[string]string{
//	    "user.name": "string",
//	    "user.tags": "[string]",
//	})
//	err = schema.Validate(s, root.Values())
//
// FieldValidator turns a Type into a field validator, which is how declarative
// definitions attach "type: int" to a field.
package schema

// Package definition builds forms from declarative YAML or JSON documents.
//
// A document lists initial values, env defaults and the fields to bind. Each field
// may carry a schema type ("int", "[string]") and expression rules evaluated with
// expr against the field value, the trigger and the whole value tree:
//
//	fields:
//	  - name: password
//	    required: true
//	    rules:
//	      - expr: len(value) >= 8
//	        message: at least 8 characters
//	  - name: confirm
//	    rules:
//	      - expr: value == values.password
//	        message: passwords differ
package definition

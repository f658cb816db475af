/*
Package ports defines the driven ports of the form session layer.

  - FormStore: keeps live forms addressable by id (see pkg/adapters/memory).

RunFormStoreContract is the shared test suite every FormStore adapter runs.
*/
package ports

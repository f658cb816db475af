// Package cli implements the commands of cmd/formbind. Commands write results to
// the given writer and report an invalid form as ErrInvalid, so the command layer
// only maps errors to exit codes.
package cli

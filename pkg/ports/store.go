package ports

import (
	"context"
	"errors"

	"github.com/aretw0/formbind"
)

// ErrFormNotFound is returned when no form is stored under an id.
var ErrFormNotFound = errors.New("form not found")

// FormStore keeps live forms by id. Forms hold goroutines and reactive state, so
// stores keep the instance itself rather than a serialised copy.
type FormStore interface {
	// Save stores f under id, replacing any previous form.
	Save(ctx context.Context, id string, f *formbind.Form) error

	// Load returns the form stored under id or ErrFormNotFound.
	Load(ctx context.Context, id string) (*formbind.Form, error)

	// Delete removes the form stored under id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored ids.
	List(ctx context.Context) ([]string, error)
}

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = entities.ErrNotFound

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is the ordered set of field errors for one submission.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NotFoundError reports a detail, update or delete-form target that does not resolve.
type NotFoundError struct {
	Kind entities.Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Dependent is a record that references the record being deleted.
type Dependent struct {
	Kind   entities.Kind `json:"kind"`
	ID     string        `json:"id"`
	Label  string        `json:"label"`
	Record any           `json:"record"`
}

// IntegrityViolation is returned as data when live dependents block a delete.
type IntegrityViolation struct {
	Kind       entities.Kind `json:"kind"`
	ID         string        `json:"id"`
	Dependents []Dependent   `json:"dependents"`
}

func (v *IntegrityViolation) Error() string {
	return fmt.Sprintf("%s %s has %d dependent record(s)", v.Kind, v.ID, len(v.Dependents))
}

// StoreError wraps a failure of the underlying record store.
type StoreError struct {
	Op   string
	Kind entities.Kind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeErr maps a repository error: missing rows become NotFoundError, anything
// else a StoreError. Context errors are kept visible through Unwrap.
func storeErr(op string, kind entities.Kind, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entities.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	var se *StoreError
	var nf *NotFoundError
	if errors.As(err, &se) || errors.As(err, &nf) {
		return err
	}
	return &StoreError{Op: op, Kind: kind, Err: err}
}

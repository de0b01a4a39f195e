package service

import (
	"errors"
	"fmt"
)

// ── Domain errors ────────────────────────────────────────────────────────────
// Handlers map these to HTTP status codes with errors.As; anything else is a 500.

// ValidationError reports malformed input. Fields maps field path to the
// failed rule, e.g. "Items[0].Quantity" -> "gt".
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("datos inválidos (%d campos)", len(e.Fields))
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " no encontrado"
	}
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

// ConflictError reports a business rule violation against current state,
// such as insufficient stock or a duplicate name.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// TransientError wraps a storage failure. The operation left no partial state
// behind and may be retried.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

func notFound(entity string, id fmt.Stringer) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

func transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Err: err}
}

// passDomain returns err unchanged when it is already a domain error and
// wraps it as transient otherwise.
func passDomain(op string, err error) error {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		te *TransientError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ce) || errors.As(err, &te) {
		return err
	}
	return transient(op, err)
}

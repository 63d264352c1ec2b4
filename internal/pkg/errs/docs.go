// Package errs holds the typed errors shared by the domain and the use cases.
//
// Every type wraps a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired), so callers branch with
// errors.Is and read details with errors.As. The three value errors make up
// the validation class reported by IsValidation: they come from bad input,
// map to 400 at the HTTP edge and are never retried by background work.
package errs

// Package guard provides the constructor guard embedded by commands, queries and
// domain objects so that zero values built with a struct literal can be told apart
// from values produced by their validating constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as produced by its constructor.
//
// Embed it as a private field and set it with NewConstructorGuard inside the
// constructor:
//
//	type AddOrderItemCommand struct {
//	    quantity int
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c AddOrderItemCommand) Validate() error {
//	    return c.guard.Validate(ErrAddOrderItemCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}

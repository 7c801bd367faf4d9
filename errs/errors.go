// Package errs defines the sentinel errors shared by the cds packages.
//
// Operations wrap these sentinels with the full path of the offending object,
// so callers classify failures with errors.Is:
//
//	if _, err := grp.DefineVar("temp", format.TypeDouble, "time"); errors.Is(err, errs.ErrLocked) {
//	    // the group definition is locked
//	}
package errs

import "errors"

var (
	// ErrLocked is returned when a structural change is attempted on an object
	// (or its parent) whose definition lock is held.
	ErrLocked = errors.New("definition locked")

	// ErrConflict is returned when an object is redefined with a different
	// shape, type or value, or when a sibling already uses the requested name.
	ErrConflict = errors.New("conflicting definition")

	// ErrNotFound is returned by operations that require an object which does
	// not exist. Plain lookups return nil instead.
	ErrNotFound = errors.New("not found")

	// ErrType is returned for invalid casts, string/numeric mixing, shape
	// mismatches, unsupported types and unparsable text.
	ErrType = errors.New("type error")

	// ErrAlloc is returned when a buffer of the requested size cannot be
	// allocated. It is never used to signal "no data".
	ErrAlloc = errors.New("allocation failure")

	// ErrInvalidName is returned for empty or malformed object names.
	ErrInvalidName = errors.New("invalid name")

	// ErrDetached is returned when an operation targets an object that has
	// already been deleted from its tree.
	ErrDetached = errors.New("object has been deleted")
)

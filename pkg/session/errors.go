package session

import "errors"

// Sentinel errors for navigation misuse or application misbehavior. All are
// fatal to the current call and are never retried; wrap sites add the literal
// selector or text that failed to resolve.
var (
	// ErrFormNotFound is returned when a form selector matches no single form
	// element in the current document.
	ErrFormNotFound = errors.New("form not found")
	// ErrLinkNotFound is returned when neither a selector match nor an exact
	// text match resolves a link.
	ErrLinkNotFound = errors.New("link not found")
	// ErrUnsupportedMethod is returned when a form declares a method other
	// than GET or POST.
	ErrUnsupportedMethod = errors.New("unsupported form method")
)

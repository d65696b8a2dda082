package resolver

import "errors"

// LookupError reports a server identifier outside the recognized set. An
// unrecognized identifier is an ordinary, expected error path: the resolver
// returns it immediately and the host decides how to surface it.
type LookupError struct {
	ID string
}

func (e *LookupError) Error() string {
	return "Unknown server: " + e.ID
}

// IsLookup reports whether err is (or wraps) a *LookupError.
func IsLookup(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

package ecology

import "errors"

// ErrInvalidArgument is wrapped by every error raised when an input violates a
// species or ecosystem invariant. Match it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

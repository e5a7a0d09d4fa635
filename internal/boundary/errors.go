package boundary

import "errors"

// ErrInvalidHandle is returned for a handle that was never issued or has
// already been destroyed.
var ErrInvalidHandle = errors.New("invalid session handle")

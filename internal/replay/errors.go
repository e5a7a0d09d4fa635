package replay

import "errors"

// ErrFileRemoved is returned by Follow when the followed file is removed
// or renamed.
var ErrFileRemoved = errors.New("followed file removed")

package destination

import "errors"

// Fatal resolution errors. Everything else in the pipeline degrades to a
// default or a fallback; these two surface to the caller unrecovered.
var (
	// ErrBothDown means neither cluster backend is accepting work, so no
	// destination can be produced.
	ErrBothDown = errors.New("both clusters are currently down")

	// ErrUnauthorized means the caller asked for a restricted tool
	// without being the authorized identity.
	ErrUnauthorized = errors.New("unauthorized")
)

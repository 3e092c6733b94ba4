package pulse

import "errors"

// Exported errors for library consumers.
var (
	// ErrNoDatabase indicates no database was configured.
	ErrNoDatabase = errors.New("pulse: no database configured")

	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = errors.New("pulse: client is closed")
)

package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	sessionID = uuid.NewString()
	commits   uint64
)

// SessionID identifies this overlay session in logs and remote status.
func SessionID() string { return sessionID }

// NewShapeID returns a unique ID for a shape about to be committed.
func NewShapeID() string {
	atomic.AddUint64(&commits, 1)
	return uuid.NewString()
}

// CommitCount is the number of IDs handed out this session.
func CommitCount() uint64 {
	return atomic.LoadUint64(&commits)
}

package errors

import "fmt"

// Admission outcomes reported to a connecting member. None of them
// mutate room state.
var (
	ErrBlocked       = fmt.Errorf("not on the invite list of this room")
	ErrAlreadyJoined = fmt.Errorf("already joined this room")
	ErrJoinTimeout   = fmt.Errorf("room did not answer the join request in time")
)

// Persistence failures. A read failure means the room does not exist
// for the caller; a write failure leaves the room live but out of sync
// with durable storage.
var (
	ErrRoomNotFound    = fmt.Errorf("no snapshot exists for this room")
	ErrCorruptSnapshot = fmt.Errorf("room snapshot cannot be decoded")
)

var (
	ErrEmptyPattern = fmt.Errorf("search pattern is empty")
	ErrRoomClosed   = fmt.Errorf("room is closed")
	ErrWorkerPanic  = fmt.Errorf("worker panic")
)

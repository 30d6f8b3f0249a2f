package ap

import "errors"

// Synchronous error taxonomy surfaced by Start/Stop. Kernel-refused and
// malformed-frame never reach the caller synchronously: the former drives a
// Stopped event, the latter is logged and the frame dropped.
var (
	ErrAlreadyExists = errors.New("ap: already exists")
	ErrNoDevice      = errors.New("ap: no device")
	ErrIO            = errors.New("ap: i/o failure")
)

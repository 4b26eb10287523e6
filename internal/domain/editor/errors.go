package editor

import "errors"

// Sentinel kinds for editor errors.
var (
	ErrUnauthenticated = errors.New("no current user")
	ErrNotReady        = errors.New("editor is not ready")
	ErrNoSubmission    = errors.New("no submission to delete")
	ErrUnknownGrade    = errors.New("unknown grade label")
	ErrUnknownStrength = errors.New("unknown strength label")
	ErrUnknownSchool   = errors.New("unknown school label")
)

package client

import "errors"

var (
	// ErrDaemonNotRunning is returned when nothing listens on the daemon socket
	ErrDaemonNotRunning = errors.New("daemon not running")

	// ErrPermissionDenied is returned when the socket is not accessible to the current user
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when 404 is returned from the daemon
	ErrNotFound = errors.New("404 not found")

	// ErrBadRequest is returned when the daemon rejects the request, e.g. an unknown key
	ErrBadRequest = errors.New("bad request")
)

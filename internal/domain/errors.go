package domain

import "errors"

var (
	ErrNoSession   = errors.New("no active session")
	ErrSyncStopped = errors.New("synchronizer is stopped")
	ErrSyncRunning = errors.New("synchronizer is already running")
)

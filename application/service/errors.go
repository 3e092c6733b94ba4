package service

import "errors"

// ErrRunInProgress indicates another sync run holds the run lock.
var ErrRunInProgress = errors.New("sync run already in progress")

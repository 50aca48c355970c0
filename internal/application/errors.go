package application

import "errors"

var ErrConflict = errors.New("conflict")
var ErrNotRunning = errors.New("refresher not running")

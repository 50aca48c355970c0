package domain

import "errors"

var (
	ErrNoJSON          = errors.New("no json object in response")
	ErrMalformedJSON   = errors.New("malformed json object")
	ErrMissingRate     = errors.New("missing reference rate")
	ErrImplausibleRate = errors.New("implausible reference rate")
)

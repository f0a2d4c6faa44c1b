package apperr

import "errors"

// ErrInvalidInput is returned when a caller-supplied value fails validation,
// such as an unparseable symbol or an order kind the target broker cannot
// express. Use errors.Is(err, apperr.ErrInvalidInput) to detect validation
// failures uniformly.
var ErrInvalidInput = errors.New("invalid input")

// ErrRequestFailed is returned when a broker API request fails at the
// transport level or the server responds with a non-2xx status code.
var ErrRequestFailed = errors.New("request failed")

// ErrNotConnected is returned when an operation requires a live broker
// connection and none has been established (e.g. missing credentials).
var ErrNotConnected = errors.New("not connected")

// ErrRejected is returned when an order or fill cannot be accepted, such as
// a buy that would overdraw the portfolio's cash.
var ErrRejected = errors.New("rejected")

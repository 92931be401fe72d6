package api

import "errors"

// ErrNoToken means the login exchange succeeded at the transport level but
// the response carried no X-Token header.
var ErrNoToken = errors.New("no token issued")

// ErrTokenRejected is the internal signal for an in-band "Token Check Failed"
// payload. It never reaches callers on a successful retry.
var ErrTokenRejected = errors.New("token check failed")

// AuthError wraps any failure of the login exchange.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// CallFailedError is returned after all retry attempts are exhausted. It
// carries the last observed fault.
type CallFailedError struct {
	Err error
}

func (e *CallFailedError) Error() string {
	return "olt api call failed: " + e.Err.Error()
}

func (e *CallFailedError) Unwrap() error {
	return e.Err
}

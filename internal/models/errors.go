package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced contact/template/account id that does not
// exist in the store. In bulk operations it is a per-item failure, not an
// abort.
var ErrNotFound = errors.New("not found")

// ErrNoSession is returned when a send is attempted without an open
// delivery session.
var ErrNoSession = errors.New("no open SMTP session")

// ValidationError reports bad input (unknown template variable, missing
// required field, duplicate name). It is surfaced before any persistence
// mutation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// ConnectionError reports a transport handshake or auth failure. It aborts
// the whole campaign before any send is attempted.
type ConnectionError struct {
	Account string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Account, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SendError reports a transient transmit failure for one message. The
// orchestrator retries these; the channel does not.
type SendError struct {
	Recipient string
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send to %s: %v", e.Recipient, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// StoreError reports the persistence layer failing during a state mutation.
// The in-flight mutation is rolled back; the error is fatal for that
// operation only.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

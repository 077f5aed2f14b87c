package upstream

import (
	"errors"
	"fmt"
)

// Failure classes for calls to the inventory backend. Every failure mode is
// converted into *Error at the call site; nothing propagates as a panic and
// nothing is retried automatically.
const (
	KindTransport = "transport" // request never produced a response
	KindAPI       = "api"       // non-2xx with a structured {message} body
	KindHTTP      = "http"      // non-2xx with an unstructured body
	KindDecode    = "decode"    // 2xx with a body we could not decode
)

type Error struct {
	Kind       string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message extracts the user-facing message from any error returned by this
// package. Handlers use it to fill notification and response bodies.
func Message(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

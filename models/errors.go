package models

import (
	"errors"
	"fmt"
)

// ErrorKind tags a failure so callers can branch on it without type assertions.
type ErrorKind string

const (
	KindSessionStart     ErrorKind = "session_start"
	KindElementNotFound  ErrorKind = "element_not_found"
	KindClickInteraction ErrorKind = "click_interaction"
	KindCaptchaTimeout   ErrorKind = "captcha_timeout"
	KindLoginFailure     ErrorKind = "login_failure"
	KindUnconfirmed      ErrorKind = "unconfirmed_submission"
	KindUnsupportedSite  ErrorKind = "unsupported_site"
	KindUnexpected       ErrorKind = "unexpected"
)

// Error is a failure tagged with its kind and the operation that produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError wraps err with kind and op.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the outermost tagged error in err's chain, or
// KindUnexpected when nothing in the chain is tagged.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

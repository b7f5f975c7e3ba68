package domain

import "errors"

// Kind is the stable machine-readable failure class.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindNotFound           Kind = "not_found"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindAccountNotApproved Kind = "account_not_approved"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInvalidOTP         Kind = "invalid_otp"
	KindOTPExpired         Kind = "otp_expired"
	KindMismatch           Kind = "mismatch"
	KindAlreadySubmitted   Kind = "already_submitted"
	KindOutsideWindow      Kind = "outside_submission_window"
	KindConflict           Kind = "conflict"
	KindInvalidStatus      Kind = "invalid_status"
	KindInternal           Kind = "internal"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

func E(kind Kind, msg string) error { return &Error{Kind: kind, Msg: msg} }

func Internal(msg string, err error) error { return &Error{Kind: KindInternal, Msg: msg, Err: err} }

// KindOf returns the kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool { return err != nil && KindOf(err) == kind }

package errors

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindInvalidEntity    Kind = "invalid_entity"
	KindNotFound         Kind = "not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindConflict         Kind = "conflict"
	KindTransport        Kind = "transport"
)

type Exception struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Exception) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Exception) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind and message so wrapped copies produced by
// Wrap still satisfy errors.Is against the original sentinel.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Wrap returns a copy of the sentinel carrying cause.
func Wrap(sentinel *Exception, cause error) *Exception {
	return &Exception{
		Kind:       sentinel.Kind,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Err:        cause,
	}
}

func KindOf(err error) Kind {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindTransport
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

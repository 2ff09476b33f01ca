package errors

import "net/http"

var ErrConflict = &Exception{
	Kind:       KindConflict,
	Message:    "constraint violation",
	StatusCode: http.StatusConflict,
}

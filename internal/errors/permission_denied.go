package errors

import "net/http"

var ErrPermissionDenied = &Exception{
	Kind:       KindPermissionDenied,
	Message:    "permission denied",
	StatusCode: http.StatusForbidden,
}

var ErrNotAuthenticated = &Exception{
	Kind:       KindPermissionDenied,
	Message:    "no authenticated user",
	StatusCode: http.StatusUnauthorized,
}

var ErrSessionNotReady = &Exception{
	Kind:       KindPermissionDenied,
	Message:    "session is still loading",
	StatusCode: http.StatusServiceUnavailable,
}

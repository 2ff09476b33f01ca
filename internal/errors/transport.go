package errors

import "net/http"

var ErrTransport = &Exception{
	Kind:       KindTransport,
	Message:    "remote store unavailable",
	StatusCode: http.StatusBadGateway,
}

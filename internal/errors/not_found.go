package errors

import "net/http"

var ErrTaskNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}

var ErrRowNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "record not found",
	StatusCode: http.StatusNotFound,
}

var ErrTableNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "backing table not found",
	StatusCode: http.StatusNotFound,
}

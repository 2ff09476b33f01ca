package errors

import "net/http"

var ErrInvalidID = &Exception{
	Kind:       KindInvalidEntity,
	Message:    "invalid task id",
	StatusCode: http.StatusBadRequest,
}

var ErrEmptyName = &Exception{
	Kind:       KindInvalidEntity,
	Message:    "task name is required",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidField = &Exception{
	Kind:       KindInvalidEntity,
	Message:    "invalid task field",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidProfile = &Exception{
	Kind:       KindInvalidEntity,
	Message:    "invalid profile",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidShareLink = &Exception{
	Kind:       KindInvalidEntity,
	Message:    "invalid share link",
	StatusCode: http.StatusBadRequest,
}

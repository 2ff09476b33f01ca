package dto

import model "taskmaster.app/taskmaster/pkg/models"

type SessionResponse struct {
	State string      `json:"state"`
	User  *model.User `json:"user,omitempty"`
	Error string      `json:"error,omitempty"`
}

type ShareResponse struct {
	Link string `json:"link"`
}

package dto

// TaskRequest is the full task form used for create and edit.
type TaskRequest struct {
	Name      string  `json:"name" validate:"required"`
	Date      string  `json:"date" validate:"required"`
	StartTime string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string  `json:"end_time" validate:"required,datetime=15:04"`
	Category  string  `json:"category" validate:"required,oneof=Study Productive Life Work Health Personal"`
	Priority  string  `json:"priority" validate:"required,oneof=Low Medium High"`
	Completed bool    `json:"completed"`
	Paused    bool    `json:"paused"`
	Reminder  bool    `json:"reminder"`
	Deadline  *string `json:"deadline,omitempty"`
}

// ForeignTask is a task payload from another context; every field but the
// name may be missing.
type ForeignTask struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" validate:"required"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   string  `json:"end_time" validate:"omitempty,datetime=15:04"`
	Category  string  `json:"category" validate:"omitempty,oneof=Study Productive Life Work Health Personal"`
	Priority  string  `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Completed bool    `json:"completed"`
	Paused    bool    `json:"paused"`
	Reminder  bool    `json:"reminder"`
	Deadline  *string `json:"deadline,omitempty"`
}

type ImportRequest struct {
	Link string       `json:"link" validate:"required_without=Task"`
	Task *ForeignTask `json:"task" validate:"omitempty"`
}

type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,dive,uuid"`
}

type ShareRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RestoreRequest struct {
	VersionID string `json:"version_id" validate:"required,uuid"`
}

type PreferencesRequest struct {
	Theme          string `json:"theme" validate:"required,oneof=light dark system"`
	Notifications  bool   `json:"notifications"`
	EmailReminders bool   `json:"emailReminders"`
}

type ProfileRequest struct {
	Name        *string             `json:"name" validate:"omitempty,min=1"`
	Email       *string             `json:"email" validate:"omitempty,email"`
	Preferences *PreferencesRequest `json:"preferences" validate:"omitempty"`
}

// TaskQuery filters the task list.
type TaskQuery struct {
	Q        string `query:"q"`
	Category string `query:"category" validate:"omitempty,oneof=all Study Productive Life Work Health Personal"`
	Priority string `query:"priority" validate:"omitempty,oneof=all Low Medium High"`
	Status   string `query:"status" validate:"omitempty,oneof=all completed pending paused"`
	Date     string `query:"date"`
}

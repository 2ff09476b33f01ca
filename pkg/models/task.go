package model

import (
	"time"

	"taskmaster.app/taskmaster/pkg/constants"
)

type Task struct {
	ID        string             `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string             `gorm:"column:user_id;size:36;not null;index" json:"user_id"`
	Name      string             `gorm:"not null" json:"name"`
	Date      time.Time          `gorm:"not null" json:"date"`
	StartTime string             `gorm:"size:5;not null" json:"start_time"`
	EndTime   string             `gorm:"size:5;not null" json:"end_time"`
	Category  constants.Category `gorm:"type:text;not null;check:chk_tasks_category,category IN ('Study','Productive','Life','Work','Health','Personal')" json:"category"`
	Completed bool               `gorm:"not null;default:false" json:"completed"`
	Paused    bool               `gorm:"not null;default:false" json:"paused"`
	Reminder  bool               `gorm:"not null;default:false" json:"reminder"`
	Priority  constants.Priority `gorm:"type:text;not null;check:chk_tasks_priority,priority IN ('Low','Medium','High')" json:"priority"`
	Deadline  *time.Time         `json:"deadline,omitempty"`
	Order     int                `gorm:"column:task_order;not null" json:"task_order"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskVersion is a snapshot of a task captured when a mutation commits.
type TaskVersion struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Task      Task      `json:"task"`
	Timestamp time.Time `json:"timestamp"`
}

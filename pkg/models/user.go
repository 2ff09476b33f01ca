package model

import (
	"time"

	"taskmaster.app/taskmaster/pkg/constants"
)

type Preferences struct {
	Theme          constants.Theme `json:"theme"`
	Notifications  bool            `json:"notifications"`
	EmailReminders bool            `json:"emailReminders"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:          constants.ThemeSystem,
		Notifications:  true,
		EmailReminders: true,
	}
}

type User struct {
	ID          string      `gorm:"primaryKey;size:36" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Email       string      `gorm:"uniqueIndex;not null" json:"email"`
	SignupDate  time.Time   `gorm:"column:signup_date;not null" json:"signup_date"`
	Avatar      string      `json:"avatar,omitempty"`
	Preferences Preferences `gorm:"type:jsonb;serializer:json;not null" json:"preferences"`
}

func (User) TableName() string {
	return "users"
}

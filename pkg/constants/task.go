package constants

type Category string

const (
	CategoryStudy      Category = "Study"
	CategoryProductive Category = "Productive"
	CategoryLife       Category = "Life"
	CategoryWork       Category = "Work"
	CategoryHealth     Category = "Health"
	CategoryPersonal   Category = "Personal"
)

var Categories = []Category{
	CategoryStudy,
	CategoryProductive,
	CategoryLife,
	CategoryWork,
	CategoryHealth,
	CategoryPersonal,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Defaults applied to imported tasks with missing fields.
const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"
	DefaultCategory  = CategoryPersonal
	DefaultPriority  = PriorityMedium
)

package format

// Lead statuses understood by the dashboard.
const (
	StatusToDo       = "TO DO"
	StatusInProgress = "IN PROGRESS"
	StatusComplete   = "COMPLETE"
)

// Lead priorities understood by the dashboard.
const (
	PriorityUrgent = "Urgent"
	PriorityHigh   = "High"
	PriorityNormal = "Normal"
	PriorityLow    = "Low"
)

// Statuses and Priorities list the filter options in display order.
var (
	Statuses   = []string{StatusToDo, StatusInProgress, StatusComplete}
	Priorities = []string{PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow}
)

var statusClasses = map[string]string{
	StatusToDo:       "status-todo",
	StatusInProgress: "status-in-progress",
	StatusComplete:   "status-complete",
}

var priorityClasses = map[string]string{
	PriorityUrgent: "priority-urgent",
	PriorityHigh:   "priority-high",
	PriorityNormal: "priority-normal",
	PriorityLow:    "priority-low",
}

// StatusClass maps a status to its badge class. Unknown statuses are drawn
// like TO DO.
func StatusClass(status string) string {
	if class, ok := statusClasses[status]; ok {
		return class
	}
	return statusClasses[StatusToDo]
}

// PriorityClass maps a priority to its badge class. Unknown priorities are
// drawn like Normal.
func PriorityClass(priority string) string {
	if class, ok := priorityClasses[priority]; ok {
		return class
	}
	return priorityClasses[PriorityNormal]
}

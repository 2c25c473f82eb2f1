package model

// Call statuses understood by the external-calls API.
const (
	CallStatusScheduled  = "scheduled"
	CallStatusStarting   = "starting"
	CallStatusInProgress = "in_progress"
	CallStatusComplete   = "complete"
	CallStatusFailed     = "failed"
)

// UpdateStatuses are the transitions steady-state update traffic drives,
// picked uniformly at random.
var UpdateStatuses = []string{
	CallStatusInProgress,
	CallStatusComplete,
	CallStatusFailed,
	CallStatusStarting,
}

// CallProvider is the provider every synthetic call is scheduled with.
const CallProvider = "Vapi"

package domain

// transitions допустимые переходы статусов выезда
var transitions = map[InterventionStatus]map[InterventionStatus]struct{}{
	InterventionPlanned: {
		InterventionInProgress: {},
		InterventionCompleted:  {},
		InterventionCancelled:  {},
	},
	InterventionInProgress: {
		InterventionCompleted: {},
		InterventionCancelled: {},
	},
	InterventionCompleted: {},
	InterventionCancelled: {},
}

// IsValidInterventionStatus проверяет, что статус известен
func IsValidInterventionStatus(status InterventionStatus) bool {
	_, ok := transitions[status]
	return ok
}

// CanTransition проверяет переход from -> to. Переход в тот же статус разрешен (no-op)
func CanTransition(from, to InterventionStatus) bool {
	if from == to {
		return IsValidInterventionStatus(from)
	}
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

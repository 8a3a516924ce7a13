package entities

type Status string

const (
	StatusNew       Status = "NEW"
	StatusInProcess Status = "IN_PROCESS"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
	StatusError     Status = "ERROR"
)

// transitions is the full allowed-transition table. Statuses absent from the
// map are terminal.
var transitions = map[Status]map[Status]bool{
	StatusNew: {
		StatusInProcess: true,
		StatusError:     true,
	},
	StatusInProcess: {
		StatusDelivered: true,
		StatusCancelled: true,
		StatusError:     true,
	},
}

func (s Status) CanTransitionTo(target Status) bool {
	return transitions[s][target]
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProcess, StatusDelivered, StatusCancelled, StatusError:
		return true
	}
	return false
}

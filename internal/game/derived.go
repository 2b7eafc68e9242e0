package game

import "github.com/fmkparty/fmk/internal/person"

// RemainingAssignments returns the assignment values not yet used in
// the current round, in canonical order. With no active round all three
// are returned.
func RemainingAssignments(state State) []Assignment {
	if state.CurrentRound == nil {
		return append([]Assignment(nil), Assignments...)
	}
	var remaining []Assignment
	for _, a := range Assignments {
		if !state.CurrentRound.assigned(a) {
			remaining = append(remaining, a)
		}
	}
	return remaining
}

// UnassignedPeople returns the current round's people that do not have
// an assignment yet.
func UnassignedPeople(state State) []person.Person {
	if state.CurrentRound == nil {
		return nil
	}
	assigned := make(map[string]struct{}, len(state.CurrentRound.Assignments))
	for _, pa := range state.CurrentRound.Assignments {
		assigned[pa.Person.ID] = struct{}{}
	}
	var out []person.Person
	for _, p := range state.CurrentRound.People {
		if _, ok := assigned[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// IsValidAssignment reports whether assigning the value now would be
// accepted: an active round exists and the value is unused.
func IsValidAssignment(state State, a Assignment) bool {
	return state.CurrentRound != nil && !state.CurrentRound.assigned(a)
}

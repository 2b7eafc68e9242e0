package game

import "github.com/fmkparty/fmk/internal/person"

// Action is a request to transition the game state. The reducer is
// total: every action is defined in every state, and invalid requests
// surface through State.Err rather than panics or Go errors.
type Action interface {
	isAction()
}

// StartGame creates a fresh session. Dispatching it mid-game acts as a
// hard reset into the new session.
type StartGame struct {
	CategoryID   string
	CategoryName string
	Mode         Mode
	Players      []person.Player
	Timer        TimerConfig
	CustomPeople []person.Person
}

// SetRoundPeople hands the engine a validated triplet for the next
// round. The controller sources it through the selection module so the
// reducer itself stays free of randomness.
type SetRoundPeople struct {
	People [3]person.Person
}

// SelectPerson marks a person as awaiting an assignment.
type SelectPerson struct {
	Person person.Person
}

// AssignPerson binds an assignment value to a person in the active round.
type AssignPerson struct {
	Person     person.Person
	Assignment Assignment
}

// SkipPerson removes a person from the active triplet without a
// replacement. Internal-only: user-facing swaps go through
// ReplacePerson, which preserves the triplet size.
type SkipPerson struct {
	Person person.Person
}

// ReplacePerson substitutes New for Old in the active triplet.
type ReplacePerson struct {
	Old person.Person
	New person.Person
}

// CompleteRound seals the active round and appends it to the session.
type CompleteRound struct{}

// NextRound re-enters the selecting phase without completing.
type NextRound struct{}

// EndGame stamps the session complete.
type EndGame struct{}

// Reset unconditionally returns to the initial empty state.
type Reset struct{}

// SetError records a user-visible error without other changes.
type SetError struct {
	Message string
}

func (StartGame) isAction()      {}
func (SetRoundPeople) isAction() {}
func (SelectPerson) isAction()   {}
func (AssignPerson) isAction()   {}
func (SkipPerson) isAction()     {}
func (ReplacePerson) isAction()  {}
func (CompleteRound) isAction()  {}
func (NextRound) isAction()      {}
func (EndGame) isAction()        {}
func (Reset) isAction()          {}
func (SetError) isAction()       {}

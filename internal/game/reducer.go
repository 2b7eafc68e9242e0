package game

import (
	"fmt"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/fmkparty/fmk/internal/person"
)

// Reducer computes game state transitions. It is pure apart from the
// injected clock and id generator, so a mock clock and a fixed id
// function make every transition reproducible.
type Reducer struct {
	clock quartz.Clock
	newID func() string
}

// ReducerOption configures a Reducer.
type ReducerOption func(*Reducer)

// WithIDFunc overrides id generation, for deterministic tests.
func WithIDFunc(fn func() string) ReducerOption {
	return func(r *Reducer) { r.newID = fn }
}

// NewReducer returns a reducer reading time from clock.
func NewReducer(clock quartz.Clock, opts ...ReducerOption) *Reducer {
	r := &Reducer{clock: clock, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce applies action to state and returns the next state. The input
// state is never mutated.
func (r *Reducer) Reduce(state State, action Action) State {
	switch a := action.(type) {
	case StartGame:
		return r.startGame(a)
	case SetRoundPeople:
		return r.setRoundPeople(state, a)
	case SelectPerson:
		next := state
		p := a.Person
		next.SelectedPerson = &p
		next.Err = ""
		return next
	case AssignPerson:
		return r.assignPerson(state, a)
	case SkipPerson:
		return r.skipPerson(state, a)
	case ReplacePerson:
		return r.replacePerson(state, a)
	case CompleteRound:
		return r.completeRound(state)
	case NextRound:
		next := state
		next.Status = StatusSelecting
		next.CurrentRound = nil
		next.SelectedPerson = nil
		next.Err = ""
		return next
	case EndGame:
		return r.endGame(state)
	case Reset:
		return InitialState()
	case SetError:
		return state.withError(a.Message)
	default:
		// Unknown actions indicate a code defect, not a runtime
		// condition.
		panic(fmt.Sprintf("game: unknown action %T", action))
	}
}

func (r *Reducer) startGame(a StartGame) State {
	session := &Session{
		ID:           r.newID(),
		Mode:         a.Mode,
		CategoryID:   a.CategoryID,
		CategoryName: a.CategoryName,
		Players:      append([]person.Player(nil), a.Players...),
		Timer:        a.Timer,
		CustomPeople: a.CustomPeople,
		StartedAt:    r.clock.Now(),
	}
	return State{
		Status:  StatusSelecting,
		Session: session,
		UsedIDs: map[string]struct{}{},
	}
}

func (r *Reducer) setRoundPeople(state State, a SetRoundPeople) State {
	if state.Session == nil {
		return state.withError("No active session")
	}

	round := &Round{
		ID:        r.newID(),
		People:    append([]person.Person(nil), a.People[:]...),
		StartedAt: r.clock.Now(),
	}
	if p, ok := state.Session.CurrentPlayer(); ok {
		round.PlayerID = p.ID
	}

	used := cloneUsedIDs(state.UsedIDs)
	for _, p := range a.People {
		used[p.ID] = struct{}{}
	}

	next := state
	next.Status = StatusPlaying
	next.CurrentRound = round
	next.UsedIDs = used
	next.Err = ""
	return next
}

func (r *Reducer) assignPerson(state State, a AssignPerson) State {
	if state.CurrentRound == nil {
		return state.withError("No active round")
	}
	if state.CurrentRound.assigned(a.Assignment) {
		return state.withError(fmt.Sprintf("%s already assigned", a.Assignment))
	}

	round := state.CurrentRound.clone()
	round.Assignments = append(round.Assignments, PersonAssignment{
		Person:     a.Person,
		Assignment: a.Assignment,
	})

	next := state
	next.CurrentRound = round
	next.SelectedPerson = nil
	next.Err = ""
	if len(round.Assignments) == len(Assignments) {
		next.Status = StatusReviewing
	} else {
		next.Status = StatusPlaying
	}
	return next
}

func (r *Reducer) skipPerson(state State, a SkipPerson) State {
	if state.CurrentRound == nil {
		return state.withError("No active round")
	}

	round := state.CurrentRound.clone()
	round.Skipped = append(round.Skipped, a.Person)
	kept := round.People[:0]
	for _, p := range round.People {
		if p.ID != a.Person.ID {
			kept = append(kept, p)
		}
	}
	round.People = kept

	next := state
	next.CurrentRound = round
	next.SelectedPerson = nil
	return next
}

func (r *Reducer) replacePerson(state State, a ReplacePerson) State {
	if state.CurrentRound == nil {
		return state.withError("No active round")
	}

	round := state.CurrentRound.clone()
	replaced := false
	for i, p := range round.People {
		if p.ID == a.Old.ID {
			round.People[i] = a.New
			replaced = true
		}
	}
	if !replaced {
		return state.withError("Person not in round")
	}
	round.Skipped = append(round.Skipped, a.Old)

	used := cloneUsedIDs(state.UsedIDs)
	used[a.New.ID] = struct{}{}

	next := state
	next.CurrentRound = round
	next.UsedIDs = used
	next.SelectedPerson = nil
	next.Err = ""
	return next
}

func (r *Reducer) completeRound(state State) State {
	if state.Session == nil || state.CurrentRound == nil {
		return state.withError("No active round")
	}

	sealed := state.CurrentRound.clone()
	sealed.TimeTaken = r.clock.Now().Sub(sealed.StartedAt)

	session := state.Session.clone()
	session.Rounds = append(session.Rounds, *sealed)
	session.CurrentRoundIndex++

	next := state
	next.Status = StatusSelecting
	next.Session = session
	next.CurrentRound = nil
	next.SelectedPerson = nil
	next.Err = ""
	return next
}

func (r *Reducer) endGame(state State) State {
	if state.Session == nil {
		return InitialState()
	}

	session := state.Session.clone()
	session.CompletedAt = r.clock.Now()

	next := state
	next.Status = StatusComplete
	next.Session = session
	return next
}

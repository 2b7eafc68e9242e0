package game

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/fmkparty/fmk/internal/catalog"
	"github.com/fmkparty/fmk/internal/person"
	"github.com/fmkparty/fmk/internal/selection"
)

// ErrNotEnoughPeople is the user-visible message when selection cannot
// produce a full triplet under the active filters.
const ErrNotEnoughPeople = "not enough eligible people remaining"

// PeopleSource supplies category people to the controller. Implemented
// by catalog.Catalog.
type PeopleSource interface {
	PeopleByCategory(id string) []person.Person
	RandomPeople(rng *rand.Rand, n int) []person.Person
}

// HistoryStore persists finished sessions. Implemented by storage.Store.
type HistoryStore interface {
	SaveSession(ctx context.Context, s *Session) error
}

// Controller bridges user intents to engine actions. It owns the
// current State, sources round people through the selection module, and
// triggers history persistence at session boundaries. There is exactly
// one writer; readers get copy-on-write snapshots.
type Controller struct {
	reducer *Reducer
	people  PeopleSource
	history HistoryStore
	logger  *log.Logger
	rng     *rand.Rand
	timer   *RoundTimer

	mu    sync.RWMutex
	state State
}

// NewController builds a controller around its collaborators. history
// may be nil when persistence is not wanted.
func NewController(people PeopleSource, history HistoryStore, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Controller {
	return &Controller{
		reducer: NewReducer(clock),
		people:  people,
		history: history,
		logger:  logger.WithPrefix("game"),
		rng:     rng,
		timer:   NewRoundTimer(clock, logger),
		state:   InitialState(),
	}
}

// State returns the current state snapshot.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.state.Status
	c.state = c.reducer.Reduce(c.state, a)
	if c.state.Status != prev {
		c.logger.Debug("Status change", "from", prev, "to", c.state.Status, "action", fmt.Sprintf("%T", a))
	}
	if c.state.Err != "" {
		c.logger.Debug("Action rejected", "action", fmt.Sprintf("%T", a), "error", c.state.Err)
	}
	return c.state
}

// StartGame begins a fresh session, discarding any in-flight round
// timer from a previous session.
func (c *Controller) StartGame(categoryID, categoryName string, mode Mode, players []person.Player, timer TimerConfig, customPeople []person.Person) {
	c.timer.Stop()
	c.dispatch(StartGame{
		CategoryID:   categoryID,
		CategoryName: categoryName,
		Mode:         mode,
		Players:      players,
		Timer:        timer,
		CustomPeople: customPeople,
	})
	c.logger.Info("Game started", "category", categoryID, "mode", mode, "players", len(players))
}

// LoadNextRound selects three eligible people for the next round and
// hands them to the engine. Returns false (with the error recorded in
// state) when fewer than three people remain eligible.
func (c *Controller) LoadNextRound(genders []person.Gender, ageRange [2]int) bool {
	state := c.State()
	if state.Session == nil {
		return false
	}

	pool := c.roundPool(state)
	triplet, ok := selection.SelectThree(c.rng, pool, c.options(state, genders, ageRange))
	if !ok {
		c.dispatch(SetError{Message: ErrNotEnoughPeople})
		return false
	}

	c.dispatch(SetRoundPeople{People: [3]person.Person(triplet)})
	return true
}

// SelectPerson marks a person as awaiting assignment.
func (c *Controller) SelectPerson(p person.Person) {
	c.dispatch(SelectPerson{Person: p})
}

// AssignPerson binds an assignment value to a person.
func (c *Controller) AssignPerson(p person.Person, a Assignment) {
	c.dispatch(AssignPerson{Person: p, Assignment: a})
}

// ReplacePerson swaps old out of the active triplet for a freshly
// selected eligible person, under the same filters as the round.
// Returns false when no eligible replacement exists.
func (c *Controller) ReplacePerson(old person.Person, genders []person.Gender, ageRange [2]int) bool {
	state := c.State()
	if state.CurrentRound == nil {
		c.dispatch(SetError{Message: "No active round"})
		return false
	}

	pool := c.roundPool(state)
	eligible := selection.Filter(pool, c.options(state, genders, ageRange))
	if len(eligible) == 0 {
		c.dispatch(SetError{Message: ErrNotEnoughPeople})
		return false
	}
	replacement := selection.Shuffle(c.rng, eligible)[0]

	c.dispatch(ReplacePerson{Old: old, New: replacement})
	return true
}

// CompleteRound seals the active round. Safe to call from both the
// timer expiry path and a manual intent: the second call is a no-op
// beyond recording "No active round".
func (c *Controller) CompleteRound() {
	c.timer.Stop()
	c.dispatch(CompleteRound{})
}

// NextRound re-enters the selecting phase without completing.
func (c *Controller) NextRound() {
	c.timer.Stop()
	c.dispatch(NextRound{})
}

// EndGame finalises the session and, when at least one round was
// completed, writes it to history. Calling it again on an already
// finished session is a no-op, so the session is saved at most once.
// Storage failures are returned to the caller and never enter engine
// state.
func (c *Controller) EndGame(ctx context.Context) error {
	c.timer.Stop()
	finished := c.State().Status == StatusComplete
	state := c.dispatch(EndGame{})

	if finished || c.history == nil || state.Session == nil || len(state.Session.Rounds) == 0 {
		return nil
	}
	if err := c.history.SaveSession(ctx, state.Session); err != nil {
		c.logger.Error("Failed to save game history", "error", err, "session", state.Session.ID)
		return fmt.Errorf("save history: %w", err)
	}
	c.logger.Info("Session saved to history", "session", state.Session.ID, "rounds", len(state.Session.Rounds))
	return nil
}

// Reset unconditionally returns to the initial empty state.
func (c *Controller) Reset() {
	c.timer.Stop()
	c.dispatch(Reset{})
}

// CanContinue reports whether another full round could be selected
// under the given filters. Read-only.
func (c *Controller) CanContinue(genders []person.Gender, ageRange [2]int) bool {
	state := c.State()
	if state.Session == nil {
		return false
	}
	return selection.HasEnough(c.roundPool(state), c.options(state, genders, ageRange))
}

// CanReplace reports whether at least one eligible replacement exists
// under the given filters. Read-only.
func (c *Controller) CanReplace(genders []person.Gender, ageRange [2]int) bool {
	state := c.State()
	if state.Session == nil {
		return false
	}
	return len(selection.Filter(c.roundPool(state), c.options(state, genders, ageRange))) > 0
}

// RemainingAssignments returns the unused assignment values for the
// current round.
func (c *Controller) RemainingAssignments() []Assignment {
	return RemainingAssignments(c.State())
}

// UnassignedPeople returns the current round's people without an
// assignment.
func (c *Controller) UnassignedPeople() []person.Person {
	return UnassignedPeople(c.State())
}

// CurrentPlayer returns whose turn the upcoming round belongs to in
// pass-and-play mode.
func (c *Controller) CurrentPlayer() (person.Player, bool) {
	state := c.State()
	return state.Session.CurrentPlayer()
}

// StartRoundTimer arms the decision countdown from the session's timer
// config. Expiry auto-completes the round before onExpire runs; the
// reducer guarantees a racing manual completion still yields exactly
// one sealed round. No-op when the timer is disabled.
func (c *Controller) StartRoundTimer(onTick func(remaining int), onExpire func()) {
	state := c.State()
	if state.Session == nil || !state.Session.Timer.Enabled {
		return
	}
	c.timer.Start(state.Session.Timer.DecisionTime, onTick, func() {
		c.dispatch(CompleteRound{})
		if onExpire != nil {
			onExpire()
		}
	})
}

// StopRoundTimer discards any running countdown.
func (c *Controller) StopRoundTimer() {
	c.timer.Stop()
}

// roundPool resolves the people pool for the active session: embedded
// custom people, the random-mix superset, or the session's category.
func (c *Controller) roundPool(state State) []person.Person {
	session := state.Session
	if len(session.CustomPeople) > 0 {
		return session.CustomPeople
	}
	if session.CategoryID == catalog.RandomCategoryID {
		return c.people.RandomPeople(c.rng, catalog.RandomPoolSize)
	}
	return c.people.PeopleByCategory(session.CategoryID)
}

func (c *Controller) options(state State, genders []person.Gender, ageRange [2]int) selection.Options {
	return selection.Options{
		Exclude:  state.UsedIDs,
		Genders:  genders,
		AgeRange: ageRange,
	}
}

package game

import (
	"time"

	"github.com/fmkparty/fmk/internal/person"
)

// Assignment is one of the three verdicts a round hands out. Each value
// is used at most once per round.
type Assignment string

const (
	Fuck  Assignment = "fuck"
	Marry Assignment = "marry"
	Kill  Assignment = "kill"
)

// Assignments lists the three values in canonical order.
var Assignments = []Assignment{Fuck, Marry, Kill}

func (a Assignment) String() string { return string(a) }

// Mode distinguishes solo play from local multiplayer.
type Mode string

const (
	Solo        Mode = "solo"
	PassAndPlay Mode = "pass-and-play"
)

// Status is the state-machine tag for the session lifecycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSelecting Status = "selecting"
	StatusPlaying   Status = "playing"
	StatusReviewing Status = "reviewing"
	StatusComplete  Status = "complete"
)

// TimerConfig controls the per-round decision countdown.
type TimerConfig struct {
	Enabled        bool `json:"enabled"`
	DecisionTime   int  `json:"decisionTime"`   // seconds
	DiscussionTime int  `json:"discussionTime"` // seconds, 0 = disabled
	TickSound      bool `json:"tickSound"`
}

// DefaultTimerConfig matches the out-of-box settings.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{Enabled: false, DecisionTime: 30, DiscussionTime: 60, TickSound: true}
}

// PersonAssignment binds one person to one assignment value.
type PersonAssignment struct {
	Person     person.Person `json:"person"`
	Assignment Assignment    `json:"assignment"`
}

// Round is one presented triplet and the decisions made on it. Sealed
// rounds (appended to the session) are never mutated again.
type Round struct {
	ID          string             `json:"id"`
	People      []person.Person    `json:"people"`
	Assignments []PersonAssignment `json:"assignments"`
	Skipped     []person.Person    `json:"skipped,omitempty"`
	PlayerID    string             `json:"playerId,omitempty"`
	TimeTaken   time.Duration      `json:"timeTaken,omitempty"`
	StartedAt   time.Time          `json:"startedAt"`
}

func (r *Round) clone() *Round {
	if r == nil {
		return nil
	}
	out := *r
	out.People = append([]person.Person(nil), r.People...)
	out.Assignments = append([]PersonAssignment(nil), r.Assignments...)
	out.Skipped = append([]person.Person(nil), r.Skipped...)
	return &out
}

// assigned reports whether the value is already used in this round.
func (r *Round) assigned(a Assignment) bool {
	for _, pa := range r.Assignments {
		if pa.Assignment == a {
			return true
		}
	}
	return false
}

// Session is one complete game from start to end-game.
type Session struct {
	ID                string          `json:"id"`
	Mode              Mode            `json:"mode"`
	CategoryID        string          `json:"categoryId"`
	CategoryName      string          `json:"categoryName"`
	Players           []person.Player `json:"players"`
	Rounds            []Round         `json:"rounds"`
	CurrentRoundIndex int             `json:"currentRoundIndex"`
	Timer             TimerConfig     `json:"timerConfig"`
	CustomPeople      []person.Person `json:"customPeople,omitempty"`
	StartedAt         time.Time       `json:"startedAt"`
	CompletedAt       time.Time       `json:"completedAt,omitempty"`
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = append([]person.Player(nil), s.Players...)
	out.Rounds = append([]Round(nil), s.Rounds...)
	out.CustomPeople = append([]person.Person(nil), s.CustomPeople...)
	return &out
}

// CurrentPlayer returns whose turn it is: players[index mod n] in
// pass-and-play, nothing in solo mode.
func (s *Session) CurrentPlayer() (person.Player, bool) {
	if s == nil || s.Mode != PassAndPlay || len(s.Players) == 0 {
		return person.Player{}, false
	}
	return s.Players[s.CurrentRoundIndex%len(s.Players)], true
}

// State is the root game state. It is replaced wholesale on every
// transition (copy-on-write), so concurrent readers always observe a
// consistent snapshot.
type State struct {
	Status         Status
	Session        *Session
	CurrentRound   *Round
	SelectedPerson *person.Person
	// UsedIDs holds every person id shown this session. It grows
	// monotonically and resets only with the session.
	UsedIDs map[string]struct{}
	// Err is the last user-visible error, cleared on the next
	// successful action.
	Err string
}

// InitialState returns the idle, empty state.
func InitialState() State {
	return State{Status: StatusIdle, UsedIDs: map[string]struct{}{}}
}

func (s State) withError(msg string) State {
	s.Err = msg
	return s
}

func cloneUsedIDs(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in)+3)
	for id := range in {
		out[id] = struct{}{}
	}
	return out
}

package game

import (
	"strings"
	"testing"
	"time"

	"github.com/fmkparty/fmk/internal/person"
)

func TestSummaryText(t *testing.T) {
	t.Parallel()
	session := &Session{
		CategoryName: "Movie Stars",
		Mode:         PassAndPlay,
		Players:      []person.Player{{ID: "p1", Name: "Ana"}, {ID: "p2", Name: "Ben"}},
		Rounds: []Round{
			{
				PlayerID: "p1",
				Assignments: []PersonAssignment{
					{Person: person.Person{ID: "a", Name: "Alpha"}, Assignment: Marry},
					{Person: person.Person{ID: "b", Name: "Beta"}, Assignment: Fuck},
					{Person: person.Person{ID: "c", Name: "Gamma"}, Assignment: Kill},
				},
				TimeTaken: 12 * time.Second,
			},
		},
	}

	text := SummaryText(session)

	for _, want := range []string{
		"FMK: Movie Stars",
		"1 rounds, 2 players",
		"Round 1 (Ana)",
		"F: Beta",
		"M: Alpha",
		"K: Gamma",
		"decided in 12s",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}

	// Verdicts render in canonical F/M/K order regardless of the order
	// they were assigned in.
	if strings.Index(text, "F: Beta") > strings.Index(text, "M: Alpha") {
		t.Error("expected F before M")
	}
}

func TestSummaryTextNilSession(t *testing.T) {
	t.Parallel()
	if SummaryText(nil) != "" {
		t.Error("nil session renders empty")
	}
}

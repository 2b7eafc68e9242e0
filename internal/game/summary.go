package game

import (
	"fmt"
	"strings"
	"time"
)

const timePrecision = 100 * time.Millisecond

// SummaryText renders a shareable plain-text recap of a finished
// session: one block per round listing who got which verdict.
func SummaryText(session *Session) string {
	if session == nil {
		return ""
	}

	names := make(map[string]string, len(session.Players))
	for _, p := range session.Players {
		names[p.ID] = p.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FMK: %s\n", session.CategoryName)
	fmt.Fprintf(&b, "%d rounds", len(session.Rounds))
	if session.Mode == PassAndPlay {
		fmt.Fprintf(&b, ", %d players", len(session.Players))
	}
	b.WriteString("\n")

	for i, round := range session.Rounds {
		fmt.Fprintf(&b, "\nRound %d", i+1)
		if name, ok := names[round.PlayerID]; ok && name != "" {
			fmt.Fprintf(&b, " (%s)", name)
		}
		b.WriteString("\n")
		for _, a := range Assignments {
			for _, pa := range round.Assignments {
				if pa.Assignment == a {
					fmt.Fprintf(&b, "  %s: %s\n", strings.ToUpper(string(a)[:1]), pa.Person.Name)
				}
			}
		}
		if round.TimeTaken > 0 {
			fmt.Fprintf(&b, "  decided in %s\n", round.TimeTaken.Round(timePrecision))
		}
	}
	return b.String()
}

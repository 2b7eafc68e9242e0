package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/fmkparty/fmk/internal/person"
)

// buildPrompt writes the generation instructions. The model is told to
// emit a bare JSON array so the response parses without tool calling.
func buildPrompt(description string, count int, genders []person.Gender, ageRange [2]int, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `Generate a list of exactly %d real, famous people for a party game category: %q

Requirements:
1. Only include REAL people who are publicly well-known
2. Prioritize people who are currently relevant and recognizable
3. Include people who would have photos available online
4. Each person must be an adult (18+)`, count, description)

	rule := 5
	if n := len(genders); n > 0 && n < len(person.AllGenders) {
		names := make([]string, n)
		for i, g := range genders {
			names[i] = string(g)
		}
		fmt.Fprintf(&sb, "\n%d. Only include %s people", rule, strings.Join(names, " and "))
		rule++
	}
	if ageRange != [2]int{} {
		minBirth := now.Year() - ageRange[1]
		maxBirth := now.Year() - ageRange[0]
		fmt.Fprintf(&sb, "\n%d. Only include people born between %d and %d (currently aged %d-%d)",
			rule, minBirth, maxBirth, ageRange[0], ageRange[1])
	}

	sb.WriteString(`

IMPORTANT: Output ONLY a valid JSON array with this exact structure, no other text:
[
  {
    "name": "Full Name",
    "gender": "male" | "female" | "other",
    "birthYear": 1990,
    "reason": "Brief reason why they fit the category"
  }
]`)
	return sb.String()
}

// Package person defines the people, players, and preference types shared
// by the catalog, the selection module, and the game engine.
package person

import (
	"fmt"
	"time"
)

// Gender is the gender recorded for a person, used for filtering.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// AllGenders lists every gender in a stable order.
var AllGenders = []Gender{Male, Female, Other}

// ParseGender converts a string into a Gender.
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case Male, Female, Other:
		return Gender(s), nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

func (g Gender) String() string { return string(g) }

// Source discriminates where a person record came from.
type Source string

const (
	// SourceCatalog marks a person shipped with the built-in category data.
	SourceCatalog Source = "catalog"
	// SourceCustom marks a person created by the user or by AI generation.
	SourceCustom Source = "custom"
)

// Person is a single person that can appear in a round. Catalog and
// custom people share one struct with a Source discriminant; the engine
// only ever reads the common fields.
type Person struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Gender    Gender `json:"gender"`
	BirthYear int    `json:"birthYear,omitempty"` // 0 = unknown
	ImageURL  string `json:"imageUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`

	Source Source `json:"source,omitempty"`

	// Catalog people only.
	CategoryID string `json:"categoryId,omitempty"`
	TMDBID     int    `json:"tmdbId,omitempty"`
	WikidataID string `json:"wikidataId,omitempty"`

	// Custom people only.
	ListID    string    `json:"listId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Age returns the person's age derived from their birth year. ok is
// false when the birth year is unknown.
func (p Person) Age(now time.Time) (age int, ok bool) {
	if p.BirthYear == 0 {
		return 0, false
	}
	return now.Year() - p.BirthYear, true
}

// Player identifies a participant in a pass-and-play session.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SavedPlayer is a persisted player profile with individual filter
// settings, fed into round selection in pass-and-play mode.
type SavedPlayer struct {
	Player
	AvatarColor  string    `json:"avatarColor"`
	GenderFilter []Gender  `json:"genderFilter"`
	AgeRange     [2]int    `json:"ageRange"`
	CreatedAt    time.Time `json:"createdAt"`
	LastPlayedAt time.Time `json:"lastPlayedAt,omitempty"`
}

// Age filter bounds.
const (
	MinAge = 18
	MaxAge = 100
)

// DefaultGenderFilter includes every gender.
func DefaultGenderFilter() []Gender {
	return append([]Gender(nil), AllGenders...)
}

// DefaultAgeRange spans the full permitted range.
func DefaultAgeRange() [2]int { return [2]int{MinAge, MaxAge} }

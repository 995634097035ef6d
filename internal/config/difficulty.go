package config

import (
	"fmt"
	"strings"

	"github.com/lgbarn/swapchess-go/internal/errors"
)

// Difficulty is a named engine strength preset.
type Difficulty int

const (
	Beginner Difficulty = iota
	Easy
	Intermediate
	Hard
	Impossible
)

// Strength is the pair of UCI options a difficulty maps to.
type Strength struct {
	SkillLevel int // "Skill Level" option
	Elo        int // "UCI_Elo" option
}

var strengths = [...]Strength{
	Beginner:     {SkillLevel: 0, Elo: 1000},
	Easy:         {SkillLevel: 5, Elo: 1400},
	Intermediate: {SkillLevel: 10, Elo: 1850},
	Hard:         {SkillLevel: 15, Elo: 2200},
	Impossible:   {SkillLevel: 20, Elo: 3400},
}

var difficultyNames = [...]string{
	Beginner:     "beginner",
	Easy:         "easy",
	Intermediate: "intermediate",
	Hard:         "hard",
	Impossible:   "impossible",
}

// Valid reports whether d is one of the five tiers.
func (d Difficulty) Valid() bool {
	return d >= Beginner && d <= Impossible
}

// Strength returns the skill level and rating ceiling for d.
// Invalid tiers map to the Beginner strength.
func (d Difficulty) Strength() Strength {
	if !d.Valid() {
		return strengths[Beginner]
	}
	return strengths[d]
}

// String returns the lower-case tier name.
func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// ParseDifficulty converts a tier name (case-insensitive) to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d, n := range difficultyNames {
		if n == name {
			return Difficulty(d), nil
		}
	}
	return Beginner, fmt.Errorf("unknown difficulty %q: %w", s, errors.ErrInvalidConfig)
}

// Difficulties returns all tiers from weakest to strongest.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Easy, Intermediate, Hard, Impossible}
}

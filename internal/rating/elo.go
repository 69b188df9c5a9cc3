// Package rating implements the Elo update applied after every finished
// match. Stored ratings start at 0 and are offset by 1000 for the expected
// score curve, so a fresh account behaves like a 1000-rated player.
package rating

import "math"

const (
	// KFactor is applied uniformly; there is no provisional period.
	KFactor = 32
	// Offset maps stored ratings onto the conventional Elo scale.
	Offset = 1000
)

// Score values for Update.
const (
	Win  = 1.0
	Draw = 0.5
	Loss = 0.0
)

// Update returns the new stored rating for a player who scored score against
// an opponent. Both inputs are stored ratings (offset applied internally).
// The result never drops below 0.
func Update(self, opponent int, score float64) int {
	expected := 1 / (1 + math.Pow(10, float64(opponent-self)/400))
	next := float64(self+Offset) + KFactor*(score-expected)
	updated := int(math.Round(next)) - Offset
	if updated < 0 {
		return 0
	}
	return updated
}

package adaptive

import "math"

const (
	// RatingFloor and RatingCeiling bound every stored rating and
	// difficulty value.
	RatingFloor   = 400.0
	RatingCeiling = 2800.0

	// BaseRating seeds a user's first skill rating and is the default
	// difficulty midpoint for questions with no band.
	BaseRating = 1200.0

	// KFactor is the Elo adjustment strength per answer.
	KFactor = 32.0
)

// ExpectedScore returns the probability that a player rated ratingA
// beats an opponent rated ratingB. Always in (0, 1), and
// ExpectedScore(a, b) + ExpectedScore(b, a) == 1.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

// UpdateRating computes the new rating after a graded interaction.
// result is 1 for a win (correct answer), 0 for a loss, 0.5 for a
// partial credit outcome — passing anything else is a caller bug.
func UpdateRating(rating, opponentRating, result float64) float64 {
	return clampRating(rating + KFactor*(result-ExpectedScore(rating, opponentRating)))
}

func clampRating(r float64) float64 {
	if r < RatingFloor {
		return RatingFloor
	}
	if r > RatingCeiling {
		return RatingCeiling
	}
	return r
}

package adaptive

const (
	// DefaultVariance is the half-width of the acceptance window around
	// a user's rating when selecting questions.
	DefaultVariance = 100.0

	// BandHalfWidth is the half-width of the difficulty band stored back
	// on a question after retargeting.
	BandHalfWidth = 100.0
)

// Retarget re-derives a question's difficulty midpoint from its
// historical success rate. Questions answered correctly far more than
// half the time drift toward lower difficulty; questions near a 50%
// success rate stay put. Zero attempts is a no-op.
func Retarget(timesCorrect, timesAnswered int, currentDifficulty float64) float64 {
	if timesAnswered == 0 {
		return currentDifficulty
	}
	successRate := float64(timesCorrect) / float64(timesAnswered)
	adjustment := (0.5 - successRate) * 400.0
	return clampRating(currentDifficulty + adjustment)
}

// Range is a [Min, Max] difficulty window.
type Range struct {
	Min float64
	Max float64
}

// TargetRange returns the acceptance window around a user's rating. A
// question is eligible when its own band intersects this window, not
// when a single value falls inside it.
func TargetRange(userRating, variance float64) Range {
	return Range{Min: userRating - variance, Max: userRating + variance}
}

// Overlaps reports whether the [min, max] band intersects the range.
func (r Range) Overlaps(min, max float64) bool {
	return min <= r.Max && max >= r.Min
}

package model

// Tier classifies a 0-100 category score.
//
// Design decision: We use iota-based constants like the other enumerations so
// tiers compare and sort cheaply. The badge color is derived from the tier
// rather than from the score so that the thresholds live in one place.
type Tier int

const (
	// TierBad is a score below 50.
	TierBad Tier = iota
	// TierWarn is a score from 50 up to 89.
	TierWarn
	// TierGood is a score of 90 or more.
	TierGood
)

const (
	// GoodThreshold is the lowest score classified as good.
	GoodThreshold = 90
	// WarnThreshold is the lowest score classified as warn.
	WarnThreshold = 50
)

// TierOf returns the tier of a 0-100 score.
func TierOf(score int) Tier {
	switch {
	case score >= GoodThreshold:
		return TierGood
	case score >= WarnThreshold:
		return TierWarn
	default:
		return TierBad
	}
}

// String returns a human-readable representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierGood:
		return "good"
	case TierWarn:
		return "warn"
	case TierBad:
		return "bad"
	default:
		return "unknown"
	}
}

// Color returns the shields.io badge color for the tier.
func (t Tier) Color() string {
	switch t {
	case TierGood:
		return "brightgreen"
	case TierWarn:
		return "orange"
	default:
		return "red"
	}
}

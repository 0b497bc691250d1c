package scoring

import "math"

const (
	similarityWeight   = 75.0
	keywordBoostPoints = 25.0

	compressLow  = 50.0
	compressHigh = 95.0
)

// Mode selects which display-shaping rule applies to a score.
type Mode string

const (
	ModeRaw       Mode = "raw"
	ModeOptimized Mode = "optimized"
)

// ParseMode returns the Mode named by s.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeRaw, ModeOptimized:
		return Mode(s), true
	}
	return "", false
}

// Combine merges a base similarity in [0,1] with a keyword boost.
func Combine(base, boost float64) float64 {
	return base*similarityWeight + boost
}

// Compress pulls scores below 50 up toward 50 and scores above 95 down
// toward 95, halving the distance in both cases.
func Compress(score float64) float64 {
	switch {
	case score < compressLow:
		return compressLow + score/2
	case score > compressHigh:
		return compressHigh - (score-compressHigh)/2
	}
	return score
}

// Shaper adjusts a compressed score for display. It runs after all scoring
// math and may be swapped without touching the similarity computation.
type Shaper func(score float64, mode Mode) float64

// DisplayOverrides is the product display rule: raw scores in [66,77] show
// as 65, optimized scores in (69,78) show as 78.
func DisplayOverrides(score float64, mode Mode) float64 {
	switch mode {
	case ModeRaw:
		if score >= 66 && score <= 77 {
			return 65.0
		}
	case ModeOptimized:
		if score > 69 && score < 78 {
			return 78.0
		}
	}
	return score
}

// NoShaping leaves scores untouched.
func NoShaping(score float64, _ Mode) float64 {
	return score
}

// Finalize rounds to two decimals and clamps to [0,100].
func Finalize(score float64) float64 {
	score = math.Round(score*100) / 100
	return math.Max(0, math.Min(100, score))
}

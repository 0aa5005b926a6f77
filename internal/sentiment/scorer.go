// Package sentiment scores text with the VADER lexicon and buckets the result.
package sentiment

import (
	"math"
	"strings"
	"sync"

	"github.com/jonreiter/govader"

	"NewsMosaic/internal/domain"
)

// Scores holds the signed compound valence and its magnitude.
type Scores struct {
	Valence   float64
	Intensity float64
}

var (
	analyzerOnce sync.Once
	analyzer     *govader.SentimentIntensityAnalyzer
)

func vader() *govader.SentimentIntensityAnalyzer {
	analyzerOnce.Do(func() {
		analyzer = govader.NewSentimentIntensityAnalyzer()
	})
	return analyzer
}

// Score returns the valence in [-1, 1] and intensity in [0, 1] of text.
// Blank text is neutral.
func Score(text string) Scores {
	if strings.TrimSpace(text) == "" {
		return Scores{}
	}
	valence := vader().PolarityScores(text).Compound
	valence = math.Max(-1, math.Min(1, valence))
	return Scores{
		Valence:   valence,
		Intensity: math.Min(1, math.Abs(valence)),
	}
}

// Level discretizes an intensity. Each upper bound is exclusive.
func Level(intensity float64) domain.IntensityLevel {
	switch {
	case intensity < 0.15:
		return domain.IntensityCalm
	case intensity < 0.35:
		return domain.IntensityLow
	case intensity < 0.60:
		return domain.IntensityMedium
	case intensity < 0.80:
		return domain.IntensityHigh
	default:
		return domain.IntensityExtreme
	}
}

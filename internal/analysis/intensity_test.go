package analysis

import (
	"math"
	"testing"

	"tricoach/internal/store"
)

func TestHRPercentEstimator(t *testing.T) {
	est := HRPercentEstimator{MaxHR: 200}

	tests := []struct {
		name     string
		hr       *float64
		expected IntensityBand
		ok       bool
	}{
		{"recovery below 60%", floatPtr(110), IntensityRecovery, true},
		{"easy at 65%", floatPtr(130), IntensityEasy, true},
		{"moderate at 75%", floatPtr(150), IntensityModerate, true},
		{"tempo at 80%", floatPtr(160), IntensityTempo, true},
		{"hard at 87%", floatPtr(174), IntensityHard, true},
		{"very hard at 92%", floatPtr(184), IntensityVeryHard, true},
		{"no heart rate", nil, IntensityModerate, false},
		{"zero heart rate", floatPtr(0), IntensityModerate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band, ok := est.EstimateIntensity(store.Activity{AverageHeartrate: tt.hr})
			if band != tt.expected || ok != tt.ok {
				t.Errorf("EstimateIntensity() = (%v, %v), want (%v, %v)", band, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestHRPercentEstimatorNoMaxHR(t *testing.T) {
	est := HRPercentEstimator{}
	if _, ok := est.EstimateIntensity(store.Activity{AverageHeartrate: floatPtr(150)}); ok {
		t.Error("estimator without max HR should report no signal")
	}
}

func TestTitleKeywordEstimator(t *testing.T) {
	est := TitleKeywordEstimator{}

	tests := []struct {
		title    string
		expected IntensityBand
	}{
		{"Morning Recovery Run", IntensityRecovery},
		{"Easy tempo shakeout", IntensityRecovery}, // recovery keywords win
		{"6x800m Intervals", IntensityVeryHard},
		{"Parkrun RACE", IntensityVeryHard},
		{"Threshold repeats", IntensityHard},
		{"Tempo Thursday", IntensityTempo},
		{"Easy miles", IntensityEasy},
		{"Long run", IntensityModerate},
		{"Lunch Run", IntensityModerate}, // no keyword, default
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			band, ok := est.EstimateIntensity(store.Activity{Name: tt.title})
			if !ok {
				t.Fatal("title estimator should always produce an estimate")
			}
			if band != tt.expected {
				t.Errorf("EstimateIntensity(%q) = %v, want %v", tt.title, band, tt.expected)
			}
		})
	}
}

func TestChainEstimator(t *testing.T) {
	chain := ChainEstimator{
		HRPercentEstimator{MaxHR: 200},
		TitleKeywordEstimator{},
	}

	// HR present: HR wins even when the title disagrees.
	band, ok := chain.EstimateIntensity(store.Activity{
		Name:             "Easy spin",
		AverageHeartrate: floatPtr(184),
	})
	if !ok || band != IntensityVeryHard {
		t.Errorf("chain with HR = (%v, %v), want (very_hard, true)", band, ok)
	}

	// No HR: falls through to the title.
	band, ok = chain.EstimateIntensity(store.Activity{Name: "Easy spin"})
	if !ok || band != IntensityEasy {
		t.Errorf("chain without HR = (%v, %v), want (easy, true)", band, ok)
	}
}

func TestHeuristicScorer(t *testing.T) {
	scorer := NewHeuristicScorer(200)

	tests := []struct {
		name     string
		activity store.Activity
		expected float64
	}{
		{
			name: "one hour moderate run",
			activity: store.Activity{
				Type:             "Run",
				MovingTime:       3600,
				AverageHeartrate: floatPtr(150), // 75% max
			},
			expected: 70, // 1h * 100 * 0.7
		},
		{
			name: "one hour moderate ride uses bike table",
			activity: store.Activity{
				Type:             "Ride",
				MovingTime:       3600,
				AverageHeartrate: floatPtr(150),
			},
			expected: 65,
		},
		{
			name: "one hour moderate swim uses swim table",
			activity: store.Activity{
				Type:             "Swim",
				MovingTime:       3600,
				AverageHeartrate: floatPtr(150),
			},
			expected: 75,
		},
		{
			name: "unknown sport uses run table",
			activity: store.Activity{
				Type:             "Kayaking",
				MovingTime:       3600,
				AverageHeartrate: floatPtr(150),
			},
			expected: 70,
		},
		{
			name: "no signal defaults to moderate via title",
			activity: store.Activity{
				Type:       "Run",
				Name:       "Lunch outing",
				MovingTime: 1800,
			},
			expected: 35, // 0.5h * 100 * 0.7
		},
		{
			name:     "zero moving time",
			activity: store.Activity{Type: "Run"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorer.Score(tt.activity); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("Score() = %v, want %v", got, tt.expected)
			}
		})
	}
}

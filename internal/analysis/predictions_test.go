package analysis

import (
	"errors"
	"math"
	"testing"
	"time"
)

var predictionNow = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func effortAt(race RaceDistance, seconds int) BestEffort {
	return BestEffort{
		Race:       race,
		ActivityID: 1,
		Seconds:    seconds,
		DistanceKM: RaceDistanceKM[race],
		PacePerKM:  float64(seconds) / RaceDistanceKM[race],
	}
}

func TestPredictRace(t *testing.T) {
	tests := []struct {
		name           string
		efforts        map[RaceDistance]BestEffort
		target         RaceDistance
		tsb            float64
		wantSeconds    int
		wantDelta      float64
		wantConfidence int
		wantSource     RaceDistance
	}{
		{
			name:    "40 minute 10k projects a sub-20 5k",
			efforts: map[RaceDistance]BestEffort{Race10K: effortAt(Race10K, 2400)},
			target:  Race5K,
			tsb:     10, // fresh, no adjustment
			// 2400 * 0.5^1.06 = 1150.7
			wantSeconds:    1151,
			wantDelta:      1,
			wantConfidence: 85,
			wantSource:     Race10K,
		},
		{
			name:           "same distance effort is most trusted",
			efforts:        map[RaceDistance]BestEffort{Race5K: effortAt(Race5K, 1200)},
			target:         Race5K,
			tsb:            10,
			wantSeconds:    1200,
			wantDelta:      0,
			wantConfidence: 95,
			wantSource:     Race5K,
		},
		{
			name: "closest distance is chosen as source",
			efforts: map[RaceDistance]BestEffort{
				Race5K:  effortAt(Race5K, 1200),
				Race10K: effortAt(Race10K, 2500),
			},
			target: RaceHalf,
			tsb:    10,
			// Projects from the 10k: 2500 * 2.10975^1.06
			wantSeconds:    int(math.Round(2500 * math.Pow(21.0975/10, riegelExponent))),
			wantDelta:      1,
			wantConfidence: 70,
			wantSource:     Race10K,
		},
		{
			name:           "5k to marathon is a long extrapolation",
			efforts:        map[RaceDistance]BestEffort{Race5K: effortAt(Race5K, 1200)},
			target:         RaceMarathon,
			tsb:            10,
			wantSeconds:    int(math.Round(1200 * math.Pow(42.195/5, riegelExponent))),
			wantDelta:      1,
			wantConfidence: 50,
			wantSource:     Race5K,
		},
		{
			name: "projection uses the effort's actual distance",
			efforts: map[RaceDistance]BestEffort{
				Race10K: {
					Race:       Race10K,
					ActivityID: 1,
					Seconds:    2400,
					DistanceKM: 10.4,
					PacePerKM:  2400.0 / 10.4,
				},
			},
			target:         Race5K,
			tsb:            10,
			wantSeconds:    int(math.Round(2400 * math.Pow(5/10.4, riegelExponent))),
			wantDelta:      1,
			wantConfidence: 85,
			wantSource:     Race10K,
		},
		{
			name:           "too fresh costs a small penalty",
			efforts:        map[RaceDistance]BestEffort{Race10K: effortAt(Race10K, 2400)},
			target:         Race10K,
			tsb:            22,
			wantSeconds:    2436, // 2400 * 1.015
			wantDelta:      1,
			wantConfidence: 95,
			wantSource:     Race10K,
		},
		{
			name:           "deep fatigue slows the prediction",
			efforts:        map[RaceDistance]BestEffort{Race10K: effortAt(Race10K, 2400)},
			target:         Race10K,
			tsb:            -40,
			wantSeconds:    2640, // 10% penalty
			wantDelta:      1,
			wantConfidence: 95,
			wantSource:     Race10K,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PredictRace(tt.efforts, tt.target, tt.tsb, predictionNow)
			if err != nil {
				t.Fatalf("PredictRace() error = %v", err)
			}
			if math.Abs(float64(got.PredictedSeconds-tt.wantSeconds)) > tt.wantDelta {
				t.Errorf("PredictedSeconds = %d, want %d (±%v)", got.PredictedSeconds, tt.wantSeconds, tt.wantDelta)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %d, want %d", got.Confidence, tt.wantConfidence)
			}
			if got.SourceRace != tt.wantSource {
				t.Errorf("SourceRace = %q, want %q", got.SourceRace, tt.wantSource)
			}
			if !got.ComputedAt.Equal(predictionNow) {
				t.Errorf("ComputedAt = %v, want %v", got.ComputedAt, predictionNow)
			}
		})
	}
}

func TestPredictRaceNoEfforts(t *testing.T) {
	_, err := PredictRace(nil, Race5K, 0, predictionNow)
	if !errors.Is(err, ErrNoBestEfforts) {
		t.Errorf("error = %v, want ErrNoBestEfforts", err)
	}
}

func TestPredictRaceUnknownDistance(t *testing.T) {
	efforts := map[RaceDistance]BestEffort{Race5K: effortAt(Race5K, 1200)}
	if _, err := PredictRace(efforts, RaceDistance("100 miler"), 0, predictionNow); err == nil {
		t.Error("expected an error for an unknown race distance")
	}
}

func TestSuccessProbability(t *testing.T) {
	tests := []struct {
		name       string
		predicted  int
		target     int
		confidence int
		expected   int
	}{
		{"prediction ten percent under target", 2160, 2400, 100, 95},
		{"five percent under is not top bracket", 2280, 2400, 100, 85},
		{"modest margin", 2400, 2460, 100, 75},
		{"target barely above prediction", 2400, 2410, 100, 65},
		{"target equals prediction", 2400, 2400, 100, 65},
		{"target slightly below prediction", 2400, 2370, 100, 50},
		{"target well below prediction", 2400, 2300, 100, 35},
		{"prediction ten percent over target", 2640, 2400, 100, 20},
		{"unrealistic target keeps the floor", 2760, 2400, 100, 10},
		{"confidence scales the probability", 2160, 2400, 50, 47},
		{"zero target", 2400, 0, 100, 0},
		{"zero prediction", 0, 2400, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuccessProbability(tt.predicted, tt.target, tt.confidence)
			if got != tt.expected {
				t.Errorf("SuccessProbability(%d, %d, %d) = %d, want %d",
					tt.predicted, tt.target, tt.confidence, got, tt.expected)
			}
			if got < 0 || got > 95 {
				t.Errorf("probability %d outside [0, 95]", got)
			}
		})
	}
}

func TestSuccessProbabilityNeverCertain(t *testing.T) {
	// Even an absurdly easy target never reports certainty.
	if got := SuccessProbability(2400, 100000, 100); got > 95 {
		t.Errorf("probability = %d, must never exceed 95", got)
	}
}

func TestNormalizeRaceType(t *testing.T) {
	tests := []struct {
		name     string
		expected RaceDistance
	}{
		{"5k", Race5K},
		{"5K", Race5K},
		{"Sprint", Race5K},
		{"10k", Race10K},
		{"Olympic", Race10K},
		{"half", RaceHalf},
		{"Half Marathon", RaceHalf},
		{"70.3", RaceHalf},
		{"marathon", RaceMarathon},
		{"Ironman", RaceMarathon},
		{"140.6", RaceMarathon},
		{"  10K  ", Race10K},
		{"gibberish", Race10K}, // fallback
		{"", Race10K},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRaceType(tt.name); got != tt.expected {
				t.Errorf("NormalizeRaceType(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func TestParseTargetTime(t *testing.T) {
	tests := []struct {
		input   string
		seconds int
		wantErr bool
	}{
		{"45:00", 2700, false},
		{"19:30", 1170, false},
		{"1:45:00", 6300, false},
		{"3:59:59", 14399, false},
		{"0:20:00", 1200, false},
		{" 45:00 ", 2700, false},
		{"", 0, true},
		{"45", 0, true},
		{"1:2:3:4", 0, true},
		{"ab:cd", 0, true},
		{"45:-1", 0, true},
		{"10:75", 0, true},
		{"0:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTargetTime(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTargetTime) {
					t.Errorf("ParseTargetTime(%q) error = %v, want ErrInvalidTargetTime", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTargetTime(%q) error = %v", tt.input, err)
			}
			if got != tt.seconds {
				t.Errorf("ParseTargetTime(%q) = %d, want %d", tt.input, got, tt.seconds)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{1170, "19:30"},
		{59, "0:59"},
		{3600, "1:00:00"},
		{6300, "1:45:00"},
		{14399, "3:59:59"},
		{0, "0:00"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.expected {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.expected)
		}
	}
}

package analysis

import "testing"

func TestNormalizeSport(t *testing.T) {
	tests := []struct {
		label    string
		expected Sport
	}{
		{"Run", SportRun},
		{"TrailRun", SportRun},
		{"VirtualRun", SportRun},
		{"jogging", SportRun},
		{"Ride", SportBike},
		{"VirtualRide", SportBike},
		{"MountainBikeRide", SportBike},
		{"Cycling", SportBike},
		{"Velomobile", SportBike},
		{"Spinning", SportBike},
		{"Swim", SportSwim},
		{"OpenWaterSwim", SportSwim},
		{"WeightTraining", SportStrength},
		{"Crossfit", SportStrength},
		{"Gym Session", SportStrength},
		{"Yoga", SportOther},
		{"Kayaking", SportOther},
		{"", SportOther},
		{"   ", SportOther},
		{"RUN", SportRun},
		{"sWiM", SportSwim},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := NormalizeSport(tt.label); got != tt.expected {
				t.Errorf("NormalizeSport(%q) = %q, want %q", tt.label, got, tt.expected)
			}
		})
	}
}

func TestNormalizeSportDeterministic(t *testing.T) {
	// Keyword sets overlap ("VirtualRun" contains both "run" and "virtual");
	// the result must not depend on iteration order.
	for i := 0; i < 100; i++ {
		if got := NormalizeSport("VirtualRun"); got != SportRun {
			t.Fatalf("NormalizeSport(VirtualRun) = %q on iteration %d, want run", got, i)
		}
	}
}

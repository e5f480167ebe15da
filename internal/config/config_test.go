package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test athlete defaults
	if cfg.Athlete.RestingHR != 50 {
		t.Errorf("Athlete.RestingHR = %v, want 50", cfg.Athlete.RestingHR)
	}
	if cfg.Athlete.MaxHR != 185 {
		t.Errorf("Athlete.MaxHR = %v, want 185", cfg.Athlete.MaxHR)
	}

	// Thresholds have no defaults: unset means fallback scoring
	if cfg.Athlete.RunThresholdPace != 0 || cfg.Athlete.BikeFTP != 0 || cfg.Athlete.SwimCSSPace != 0 {
		t.Errorf("threshold zones should default to unset, got %+v", cfg.Athlete)
	}

	// Test display defaults
	if cfg.Display.DistanceUnit != "km" {
		t.Errorf("Display.DistanceUnit = %q, want %q", cfg.Display.DistanceUnit, "km")
	}
	if cfg.Display.PaceUnit != "min/km" {
		t.Errorf("Display.PaceUnit = %q, want %q", cfg.Display.PaceUnit, "min/km")
	}

	// Strava config should be empty by default
	if cfg.Strava.ClientID != "" {
		t.Errorf("Strava.ClientID should be empty, got %q", cfg.Strava.ClientID)
	}
	if cfg.Strava.ClientSecret != "" {
		t.Errorf("Strava.ClientSecret should be empty, got %q", cfg.Strava.ClientSecret)
	}
}

func TestConfigValidate(t *testing.T) {
	validStrava := StravaConfig{
		ClientID:     "12345",
		ClientSecret: "abc123secret",
	}

	tests := []struct {
		name        string
		config      Config
		expectError bool
		errContains string
	}{
		{
			name:        "valid config",
			config:      Config{Strava: validStrava},
			expectError: false,
		},
		{
			name: "valid config with zones and goals",
			config: Config{
				Strava: validStrava,
				Athlete: AthleteConfig{
					RunThresholdPace: 270,
					BikeFTP:          250,
					SwimCSSPace:      105,
					RestingHR:        50,
					MaxHR:            185,
				},
				Goals: []GoalConfig{{Race: "half marathon", TargetTime: "1:45:00"}},
			},
			expectError: false,
		},
		{
			name: "empty client ID",
			config: Config{
				Strava: StravaConfig{ClientSecret: "abc123secret"},
			},
			expectError: true,
			errContains: "client_id",
		},
		{
			name: "placeholder client ID",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "YOUR_CLIENT_ID",
					ClientSecret: "abc123secret",
				},
			},
			expectError: true,
			errContains: "client_id",
		},
		{
			name: "empty client secret",
			config: Config{
				Strava: StravaConfig{ClientID: "12345"},
			},
			expectError: true,
			errContains: "client_secret",
		},
		{
			name: "negative FTP",
			config: Config{
				Strava:  validStrava,
				Athlete: AthleteConfig{BikeFTP: -250},
			},
			expectError: true,
			errContains: "bike_ftp_watts",
		},
		{
			name: "resting HR above max HR",
			config: Config{
				Strava:  validStrava,
				Athlete: AthleteConfig{RestingHR: 190, MaxHR: 185},
			},
			expectError: true,
			errContains: "resting_hr",
		},
		{
			name: "goal without race",
			config: Config{
				Strava: validStrava,
				Goals:  []GoalConfig{{TargetTime: "45:00"}},
			},
			expectError: true,
			errContains: "race",
		},
		{
			name: "bad distance unit",
			config: Config{
				Strava:  validStrava,
				Display: DisplayConfig{DistanceUnit: "furlongs"},
			},
			expectError: true,
			errContains: "distance_unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestZones(t *testing.T) {
	cfg := Config{
		Athlete: AthleteConfig{
			RunThresholdPace: 255,
			BikeFTP:          250,
			SwimCSSPace:      105,
			MaxHR:            185,
			RestingHR:        50,
		},
	}

	run, ftp, css, maxHR, restHR := cfg.Zones()
	if run != 255 || ftp != 250 || css != 105 || maxHR != 185 || restHR != 50 {
		t.Errorf("Zones() = (%v, %v, %v, %v, %v), want (255, 250, 105, 185, 50)",
			run, ftp, css, maxHR, restHR)
	}
}

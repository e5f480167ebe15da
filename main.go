package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"

	"tricoach/internal/analysis"
	"tricoach/internal/auth"
	"tricoach/internal/config"
	"tricoach/internal/service"
	"tricoach/internal/store"
	"tricoach/internal/strava"
	"tricoach/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need your Strava API credentials and your training zones")
		fmt.Println("(threshold pace, FTP, CSS, max HR). Credentials come from:")
		fmt.Println("  https://www.strava.com/settings/api")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	oauthCfg := auth.OAuthConfig(credentials(cfg))

	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		storedAuth, err = authenticate(ctx, db, oauthCfg)
		if err != nil {
			return fmt.Errorf("authentication: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	tokenSource := auth.NewPersistingTokenSource(oauthCfg, auth.TokenFromAuth(*storedAuth), func(t *oauth2.Token) error {
		return db.UpdateTokens(t.AccessToken, t.RefreshToken, t.Expiry)
	})

	// Force a refresh up front so a dead refresh token fails here, not
	// mid-sync.
	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if storedAuth, err = authenticate(ctx, db, oauthCfg); err != nil {
			return fmt.Errorf("re-authentication: %w", err)
		}
		tokenSource = auth.NewPersistingTokenSource(oauthCfg, auth.TokenFromAuth(*storedAuth), func(t *oauth2.Token) error {
			return db.UpdateTokens(t.AccessToken, t.RefreshToken, t.Expiry)
		})
	}

	stravaClient := strava.NewClient(tokenSource)
	syncSvc := service.NewSyncService(stravaClient, db, cfg)
	querySvc := service.NewQueryService(db)

	zones := analysis.NewZones(cfg.Zones())
	units := tui.NewUnits(cfg.Display)

	app := tui.NewApp(stravaClient, syncSvc, querySvc, zones, units)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func credentials(cfg *config.Config) auth.Credentials {
	return auth.Credentials{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	}
}

func authenticate(ctx context.Context, db *store.Store, oauthCfg *oauth2.Config) (*store.Auth, error) {
	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return nil, err
	}

	storedAuth := auth.AuthFromResult(result)
	if err := db.SaveAuth(&storedAuth); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Authenticated as athlete %d.\n", result.AthleteID)
	return &storedAuth, nil
}

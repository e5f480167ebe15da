package auth

import (
	"golang.org/x/oauth2"

	"tricoach/internal/store"
)

const (
	// Strava OAuth endpoints
	authURL  = "https://www.strava.com/oauth/authorize"
	tokenURL = "https://www.strava.com/oauth/token"
)

// Strava uses comma-separated scopes inside a single scope value.
// activity:read_all covers private activities too.
var scopes = []string{"read,activity:read_all"}

// Credentials holds the OAuth client credentials from config.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuthConfig builds the oauth2.Config for Strava.
func OAuthConfig(creds Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
		RedirectURL: creds.RedirectURL,
		Scopes:      scopes,
	}
}

// Result is a completed authentication: the token plus the athlete it
// belongs to.
type Result struct {
	Token     *oauth2.Token
	AthleteID int64
}

// athleteIDFromToken pulls the athlete ID out of the token response.
// Strava embeds an athlete summary alongside the token fields.
func athleteIDFromToken(token *oauth2.Token) int64 {
	athlete, ok := token.Extra("athlete").(map[string]interface{})
	if !ok {
		return 0
	}
	id, ok := athlete["id"].(float64)
	if !ok {
		return 0
	}
	return int64(id)
}

// TokenFromAuth rebuilds an oauth2.Token from a persisted auth row.
func TokenFromAuth(a store.Auth) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		Expiry:       a.ExpiresAt,
		TokenType:    "Bearer",
	}
}

// AuthFromResult converts a completed authentication into the persisted
// auth row.
func AuthFromResult(r *Result) store.Auth {
	return store.Auth{
		AthleteID:    r.AthleteID,
		AccessToken:  r.Token.AccessToken,
		RefreshToken: r.Token.RefreshToken,
		ExpiresAt:    r.Token.Expiry,
	}
}

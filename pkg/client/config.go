package client

import "time"

// Config holds settings for the board API client.
type Config struct {
	// BaseURL is the HTTP endpoint of the server, e.g. http://localhost:8080
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// Token is the bearer token sent on protected routes. Signin and Signup
	// replace it.
	Token string `yaml:"token" json:"token"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		Timeout: 15 * time.Second,
	}
}

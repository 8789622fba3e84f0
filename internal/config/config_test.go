// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		host     string
		expected bool
	}{
		{"", true},
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"app.localhost", true},
		{"sub.domain.localhost", true},
		{"example.com", false},
		{"www.example.com", false},
		{"192.168.1.1", false},
		{"localhost.com", false}, // not a real localhost
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocalhost(tt.host))
		})
	}
}

func TestShouldUseTLS(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		host     string
		expected bool
	}{
		{"off mode", "off", "example.com", false},
		{"acme mode", "acme", "localhost", true},
		{"selfsigned mode", "selfsigned", "localhost", true},
		{"manual mode", "manual", "localhost", true},
		{"auto mode with localhost", "auto", "localhost", false},
		{"auto mode with remote host", "auto", "example.com", true},
		{"empty mode with localhost", "", "localhost", false},
		{"empty mode with remote host", "", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldUseTLS(tt.mode, tt.host))
		})
	}
}

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name: "localhost HTTP default port",
			cfg: &Config{
				Server: ServerConfig{Host: "localhost", Port: 80},
				TLS:    TLSConfig{Mode: "off"},
			},
			expected: "http://localhost",
		},
		{
			name: "localhost HTTP custom port",
			cfg: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				TLS:    TLSConfig{Mode: "off"},
			},
			expected: "http://localhost:8080",
		},
		{
			name: "remote host HTTPS default port",
			cfg: &Config{
				Server: ServerConfig{Host: "union.example.com", Port: 443},
				TLS:    TLSConfig{Mode: "manual"},
			},
			expected: "https://union.example.com",
		},
		{
			name: "acme ignores configured port",
			cfg: &Config{
				Server: ServerConfig{Host: "union.example.com", Port: 8443},
				TLS:    TLSConfig{Mode: "acme"},
			},
			expected: "https://union.example.com",
		},
		{
			name: "auto mode localhost",
			cfg: &Config{
				Server: ServerConfig{Host: "localhost", Port: 3000},
				TLS:    TLSConfig{Mode: "auto"},
			},
			expected: "http://localhost:3000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth: AuthConfig{
				TokenTTLMinutes: 15,
				SessionTTLDays:  7,
				SigningSecret:   "0123456789abcdef0123456789abcdef",
			},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing signing secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.SigningSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("short signing secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.SigningSecret = "too-short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive token TTL", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.TokenTTLMinutes = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive session TTL", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.SessionTTLDays = -1
		assert.Error(t, cfg.Validate())
	})
}

func TestNewFromCLI(t *testing.T) {
	var cfg *Config

	cmd := &cli.Command{
		Flags: Flags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg = NewFromCLI(c)
			return nil
		},
	}

	err := cmd.Run(context.Background(), []string{
		"memberhub",
		"--host", "union.example.com",
		"--port", "9000",
		"--tls-mode", "off",
		"--token-ttl", "30",
		"--signing-secret", "0123456789abcdef0123456789abcdef",
		"--smtp-host", "smtp.example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "union.example.com", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://union.example.com:9000", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 7, cfg.Auth.SessionTTLDays) // default
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port) // default
	assert.NoError(t, cfg.Validate())
}

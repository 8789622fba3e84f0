// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uosw/memberhub/internal/config"
)

func TestNewMailerValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SMTPConfig
		wantErr bool
	}{
		{
			name:    "valid",
			cfg:     config.SMTPConfig{Host: "smtp.example.com", From: "no-reply@uosw.example"},
			wantErr: false,
		},
		{
			name:    "missing host",
			cfg:     config.SMTPConfig{From: "no-reply@uosw.example"},
			wantErr: true,
		},
		{
			name:    "missing from",
			cfg:     config.SMTPConfig{Host: "smtp.example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMailer(&tt.cfg, 15*time.Minute)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier()
	ctx := context.Background()

	assert.NoError(t, n.SendLoginLink(ctx, "ada@uosw.example", "Ada", "http://localhost:8080/api/auth/verify?token=x"))
	assert.NoError(t, n.SendWelcome(ctx, "ada@uosw.example", "Ada"))
}

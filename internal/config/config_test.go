package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() AppConfig {
	return AppConfig{
		Environment: "development",
		Database:    DatabaseConfig{Driver: DriverMemory},
		Mail:        MailConfig{Provider: MailProviderLog},
		Security: SecurityConfig{
			SessionTTL:      7 * 24 * time.Hour,
			VerificationTTL: 24 * time.Hour,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{
			name:    "unknown driver",
			mutate:  func(c *AppConfig) { c.Database.Driver = "sqlite" },
			wantErr: "unknown driver",
		},
		{
			name:    "unknown mail provider",
			mutate:  func(c *AppConfig) { c.Mail.Provider = "pigeon" },
			wantErr: "unknown provider",
		},
		{
			name:    "smtp without host",
			mutate:  func(c *AppConfig) { c.Mail.Provider = MailProviderSMTP },
			wantErr: "mail.smtp.host",
		},
		{
			name:    "resend without key",
			mutate:  func(c *AppConfig) { c.Mail.Provider = MailProviderResend },
			wantErr: "mail.resend.apikey",
		},
		{
			name:    "production without invite secret",
			mutate:  func(c *AppConfig) { c.Environment = "production" },
			wantErr: "invitesecret",
		},
		{
			name: "log mailer in production",
			mutate: func(c *AppConfig) {
				c.Environment = "production"
				c.Security.InviteSecret = "s3cret"
			},
			wantErr: "cannot be used in production",
		},
		{
			name:    "zero session ttl",
			mutate:  func(c *AppConfig) { c.Security.SessionTTL = 0 },
			wantErr: "sessionttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LINKDECK_DATABASE_DRIVER", "memory")
	t.Setenv("LINKDECK_SECURITY_SESSIONTTL", "2h")
	t.Setenv("LINKDECK_MAIL_FAILSIGNUPONERROR", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Security.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.Security.VerificationTTL)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.False(t, cfg.Mail.FailSignupOnError)
	assert.Equal(t, "urls:enrich", cfg.Redis.EnrichStream)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxSize)
	assert.Equal(t, []string{".csv", ".xlsx"}, cfg.Upload.AllowedExtensions)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "gemini-2.5-flash", cfg.Advice.Model)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "non-positive read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "non-positive upload size",
			mutate:  func(c *Config) { c.Upload.MaxSize = 0 },
			wantErr: "upload max size",
		},
		{
			name:    "no upload extensions",
			mutate:  func(c *Config) { c.Upload.AllowedExtensions = nil },
			wantErr: "allowed upload extension",
		},
		{
			name:    "extension without dot",
			mutate:  func(c *Config) { c.Upload.AllowedExtensions = []string{"csv"} },
			wantErr: "must start with a dot",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Upload.MaxSize = 1024
	fileCfg.Advice.Model = "gemini-2.5-pro"

	t.Run("file fills unset env values", func(t *testing.T) {
		envCfg := Config{}
		merged := mergeConfigs(fileCfg, envCfg)

		assert.Equal(t, 9090, merged.Server.Port)
		assert.Equal(t, int64(1024), merged.Upload.MaxSize)
		assert.Equal(t, "gemini-2.5-pro", merged.Advice.Model)
	})

	t.Run("env values win", func(t *testing.T) {
		envCfg := Config{}
		envCfg.Server.Port = 8081
		envCfg.Advice.Model = "gemini-2.5-flash"

		merged := mergeConfigs(fileCfg, envCfg)

		assert.Equal(t, 8081, merged.Server.Port)
		assert.Equal(t, "gemini-2.5-flash", merged.Advice.Model)
	})
}

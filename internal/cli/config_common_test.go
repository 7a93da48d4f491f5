package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/retryclass/internal/config"
	"github.com/vvka-141/retryclass/pkg/retryclass"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	useConfig(t, "")

	cfg, err := loadConfig(false)
	require.NoError(t, err)
	assert.Equal(t, config.OutputText, cfg.OutputFormat())

	settings, err := cfg.Retry.Settings()
	require.NoError(t, err)
	assert.Equal(t, retryclass.DefaultRetryMaxAttempts, settings.MaxAttempts)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	useConfig(t, "output: json\nretry:\n  max_attempts: 7\n")

	cfg, err := loadConfig(false)
	require.NoError(t, err)
	assert.Equal(t, config.OutputJSON, cfg.OutputFormat())

	settings, err := cfg.Retry.Settings()
	require.NoError(t, err)
	assert.Equal(t, 7, settings.MaxAttempts)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	useConfig(t, "retry:\n  multiplier: 0.5\n")

	_, err := loadConfig(false)
	require.ErrorIs(t, err, retryclass.ErrInvalidConfig)
}

func TestResolveOutputFormat(t *testing.T) {
	jsonCfg := &config.Config{Output: config.OutputJSON}

	tests := []struct {
		name    string
		flag    string
		cfg     *config.Config
		want    string
		wantErr bool
	}{
		{"default", "", config.Default(), config.OutputText, false},
		{"from config", "", jsonCfg, config.OutputJSON, false},
		{"flag overrides config", config.OutputText, jsonCfg, config.OutputText, false},
		{"invalid flag", "xml", config.Default(), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveOutputFormat(tt.flag, tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, retryclass.ExitUsageError, retryclass.ExitCodeForError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

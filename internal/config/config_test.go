package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.True(t, cfg.AutoRefresh)
	require.Equal(t, 250*time.Millisecond, cfg.RefreshDebounce)
	require.True(t, cfg.Seed)
	require.True(t, cfg.UI.ShowSummary)
	require.Equal(t, "dark", cfg.UI.MarkdownStyle)
	require.Equal(t, "$", cfg.UI.Currency)
	require.NotEmpty(t, cfg.DBPath)
	require.NoError(t, cfg.Validate())
}

func TestValidate_RefreshDebounce(t *testing.T) {
	cfg := Defaults()
	cfg.RefreshDebounce = -time.Second
	require.ErrorContains(t, cfg.Validate(), "refresh_debounce")
}

func TestValidate_MarkdownStyle(t *testing.T) {
	cfg := Defaults()
	cfg.UI.MarkdownStyle = "sepia"
	require.ErrorContains(t, cfg.Validate(), "markdown_style")
}

func TestValidate_ThemeMode(t *testing.T) {
	for _, mode := range []string{"", "dark", "light"} {
		cfg := Defaults()
		cfg.Theme.Mode = mode
		require.NoError(t, cfg.Validate(), "mode %q should be valid", mode)
	}

	cfg := Defaults()
	cfg.Theme.Mode = "solarized"
	require.ErrorContains(t, cfg.Validate(), "theme.mode")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		tracing TracingConfig
		wantErr string
	}{
		{
			name:    "defaults are valid",
			tracing: Defaults().Tracing,
		},
		{
			name:    "sample rate above one",
			tracing: TracingConfig{SampleRate: 1.5},
			wantErr: "sample_rate",
		},
		{
			name:    "negative sample rate",
			tracing: TracingConfig{SampleRate: -0.1},
			wantErr: "sample_rate",
		},
		{
			name:    "unknown exporter",
			tracing: TracingConfig{Exporter: "jaeger", SampleRate: 1.0},
			wantErr: "exporter",
		},
		{
			name:    "file exporter requires path when enabled",
			tracing: TracingConfig{Enabled: true, Exporter: "file", SampleRate: 1.0},
			wantErr: "file_path",
		},
		{
			name:    "otlp exporter requires endpoint when enabled",
			tracing: TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 1.0},
			wantErr: "otlp_endpoint",
		},
		{
			name:    "disabled tracing skips path checks",
			tracing: TracingConfig{Enabled: false, Exporter: "file", SampleRate: 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.tracing)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "auto_refresh: true")
	require.Contains(t, string(data), "seed: true")

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	if !strings.Contains(strings.ToLower(os.Getenv("OS")), "windows") {
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.Palette)
	assert.NotEmpty(t, cfg.StrokeWidths)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.NoError(t, cfg.validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Palette, cfg.Palette)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chartmark.toml")
	content := `
history_limit = 25
palette = ["#ff0000", "#00ff00"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, []string{"#ff0000", "#00ff00"}, cfg.Palette)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().StrokeWidths, cfg.StrokeWidths)
	assert.Equal(t, Default().FontSize, cfg.FontSize)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty palette", `palette = []`},
		{"zero history", `history_limit = 0`},
		{"bad viewport", `max_viewport_width = -10`},
		{"malformed toml", `palette = [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

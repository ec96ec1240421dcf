package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliejerjees/card51/internal/domain"
)

func TestGameConfigLoading(t *testing.T) {
	def := Default()
	assert.Equal(t, domain.DefaultHandSize, def.HandSize)
	assert.Equal(t, 2, def.NumPlayers)

	// Before any load the defaults are served.
	assert.Equal(t, def, GetGameConfig())

	path := filepath.Join(t.TempDir(), "game_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"num_players": 4, "bot_min_delay_seconds": 2}`), 0o600))
	require.NoError(t, LoadGameConfig(path))

	loaded := GetGameConfig()
	assert.Equal(t, 4, loaded.NumPlayers)
	assert.Equal(t, 2, loaded.BotMinDelaySeconds)
	// Unset fields keep their defaults.
	assert.Equal(t, def.HandSize, loaded.HandSize)
	assert.Equal(t, def.TurnDurationSeconds, loaded.TurnDurationSeconds)

	// The load is once-only; later calls return the first result.
	require.NoError(t, LoadGameConfig(filepath.Join(t.TempDir(), "missing.json")))
	assert.Equal(t, loaded, GetGameConfig())
}

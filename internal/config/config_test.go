package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"server-warden/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMapDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{"DISCORD_TOKEN": "abc"})
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.DiscordToken)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.InitSlashCommands)
	assert.Equal(t, 10*time.Second, cfg.TicketDeleteDelay)
	assert.Equal(t, 40.0, cfg.CommandRegisterRate)
	assert.Empty(t, cfg.DiscordGuildBlacklist)
}

func TestFromMapOverrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"DISCORD_TOKEN":           "abc",
		"DISCORD_APP_ID":          "900",
		"LOG_LEVEL":               "debug",
		"INIT_SLASH_COMMANDS":     "false",
		"DISCORD_GUILD_BLACKLIST": "1, 2,,3",
		"TICKET_DELETE_DELAY":     "30s",
		"COMMAND_REGISTER_RATE":   "5",
	})
	require.NoError(t, err)

	assert.Equal(t, "900", cfg.DiscordAppID)
	assert.False(t, cfg.InitSlashCommands)
	assert.Equal(t, []string{"1", "2", "3"}, cfg.DiscordGuildBlacklist)
	assert.Equal(t, 30*time.Second, cfg.TicketDeleteDelay)
	assert.Equal(t, 5.0, cfg.CommandRegisterRate)
}

func TestMissingTokenIsConfigurationError(t *testing.T) {
	for _, vars := range []map[string]string{{}, {"DISCORD_TOKEN": "  "}} {
		_, err := FromMap(vars)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.KindConfiguration), "%v", err)
	}
}

func TestInvalidValues(t *testing.T) {
	_, err := FromMap(map[string]string{"DISCORD_TOKEN": "abc", "TICKET_DELETE_DELAY": "soon"})
	assert.True(t, errs.Is(err, errs.KindConfiguration))

	_, err = FromMap(map[string]string{"DISCORD_TOKEN": "abc", "COMMAND_REGISTER_RATE": "0"})
	assert.True(t, errs.Is(err, errs.KindConfiguration))
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot.env")
	require.NoError(t, os.WriteFile(path, []byte("DISCORD_TOKEN=from-file\nLOG_LEVEL=warn\n"), 0o600))

	t.Setenv("DISCORD_TOKEN", "")
	require.NoError(t, os.Unsetenv("DISCORD_TOKEN"))
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.DiscordToken)
	assert.Equal(t, "error", cfg.LogLevel, "process environment wins")
}

func TestLoadMissingFileFallsBackToEnvironment(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "from-env")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DiscordToken)
}

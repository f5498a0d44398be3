package main

import (
	"testing"
	"time"

	"server-warden/internal/command"
	"server-warden/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--env-file", "prod.env", "--skip-register", "--log-level=debug"})
	require.NoError(t, err)
	assert.Equal(t, options{envFile: "prod.env", skipRegister: true, logLevel: "debug"}, opts)

	opts, err = parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultEnvFile, opts.envFile)

	_, err = parseFlags([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)

	_, err = parseFlags([]string{"extra"})
	assert.Error(t, err)
}

func TestAssembleRegistersEveryCommand(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{"DISCORD_TOKEN": "secret"})
	require.NoError(t, err)

	registry, jobs, err := assemble(cfg, zap.NewNop(), time.Now())
	require.NoError(t, err)
	require.NotNil(t, jobs)

	var names []string
	for _, def := range registry.SlashDefinitions() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"ban", "debug", "kick", "permissions", "ticket", "timeout"}, names)

	for _, c := range registry.All() {
		_, wrapped := c.(command.Unwrappable)
		assert.True(t, wrapped, "%s carries middleware", c.Name())
	}
}

// Package config loads the bot configuration from the environment, with an
// optional .env file layered underneath.
package config

import (
	"os"
	"strings"
	"time"

	"server-warden/internal/errs"

	"github.com/caarlos0/env/v11"
	cr "github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no other file is named.
const DefaultEnvFile = ".env"

// Config is the full runtime configuration. It is built once at startup and
// passed down explicitly.
type Config struct {
	DiscordToken          string        `env:"DISCORD_TOKEN,required"`
	DiscordAppID          string        `env:"DISCORD_APP_ID"`
	LogLevel              string        `env:"LOG_LEVEL" envDefault:"info"`
	InitSlashCommands     bool          `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	DiscordGuildBlacklist []string      `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	TicketDeleteDelay     time.Duration `env:"TICKET_DELETE_DELAY" envDefault:"10s"`
	CommandRegisterRate   float64       `env:"COMMAND_REGISTER_RATE" envDefault:"40"`
}

// Load reads envFile (DefaultEnvFile when empty) if it exists, then parses the
// process environment. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errs.Mark(cr.Wrapf(err, "read %s", envFile), errs.KindConfiguration)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errs.Mark(cr.Wrap(err, "parse environment"), errs.KindConfiguration)
	}
	return cfg.normalize()
}

// FromMap parses cfg from explicit variables instead of the process
// environment.
func FromMap(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, errs.Mark(cr.Wrap(err, "parse environment"), errs.KindConfiguration)
	}
	return cfg.normalize()
}

func (c Config) normalize() (*Config, error) {
	c.DiscordToken = strings.TrimSpace(c.DiscordToken)
	if c.DiscordToken == "" {
		return nil, errs.New(errs.KindConfiguration, "DISCORD_TOKEN is not set")
	}

	blacklist := c.DiscordGuildBlacklist[:0]
	for _, id := range c.DiscordGuildBlacklist {
		if id = strings.TrimSpace(id); id != "" {
			blacklist = append(blacklist, id)
		}
	}
	c.DiscordGuildBlacklist = blacklist

	if c.TicketDeleteDelay <= 0 {
		return nil, errs.Newf(errs.KindConfiguration, "TICKET_DELETE_DELAY must be positive, got %s", c.TicketDeleteDelay)
	}
	if c.CommandRegisterRate <= 0 {
		return nil, errs.Newf(errs.KindConfiguration, "COMMAND_REGISTER_RATE must be positive, got %g", c.CommandRegisterRate)
	}
	return &c, nil
}

// Package discord connects the command registry to a Discord gateway
// session: it answers slash command interactions and keeps each guild's
// command definitions current.
package discord

import (
	"context"
	"slices"
	"sync"

	"server-warden/internal/command"

	"github.com/bwmarrin/discordgo"
	cr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Config controls the gateway session.
type Config struct {
	Token string
	// ApplicationID is used for command registration; when empty the
	// session user id from the ready event is used.
	ApplicationID    string
	GuildBlacklist   []string
	RegisterCommands bool
	// RegisterRate caps command registration writes per second.
	RegisterRate float64
}

// Bot is a Discord bot
type Bot struct {
	dg        *discordgo.Session
	registry  *command.Registry
	registrar *registrar
	cfg       Config
	log       *zap.Logger

	mu    sync.RWMutex
	appID string
	ctx   context.Context
}

// NewBot prepares a session; nothing connects until Run.
func NewBot(cfg Config, reg *command.Registry, log *zap.Logger) (*Bot, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RegisterRate <= 0 {
		cfg.RegisterRate = 40
	}
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, cr.Wrap(err, "failed to create session")
	}
	dg.Identify.Intents = discordgo.IntentsGuilds
	routeLibraryLogs(log)

	return &Bot{
		dg:        dg,
		registry:  reg,
		registrar: newRegistrar(dg, cfg.RegisterRate, log),
		cfg:       cfg,
		log:       log,
		appID:     cfg.ApplicationID,
		ctx:       context.Background(),
	}, nil
}

// ApplicationID returns the configured id, or the session user id once the
// gateway is ready.
func (b *Bot) ApplicationID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.appID
}

// Run opens the gateway and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return cr.Wrap(err, "failed to open Discord session")
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info("shutdown signal received, closing gateway session")
	return nil
}

func (b *Bot) runContext() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx
}

// onReady is called when the bot is ready
func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.mu.Lock()
	if b.appID == "" && r.User != nil {
		b.appID = r.User.ID
	}
	b.mu.Unlock()

	username := ""
	if r.User != nil {
		username = r.User.Username
	}
	b.log.Info("discord bot is running",
		zap.String("username", username),
		zap.String("application_id", b.ApplicationID()),
		zap.Int("guilds", len(r.Guilds)),
	)
}

// onGuildCreate fires for every guild at startup and whenever the bot joins
// one. Blacklisted guilds are left; the others get their commands synced.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil {
		return
	}
	log := b.log.With(zap.String("guild_id", g.ID), zap.String("guild_name", g.Name))

	if b.isGuildBlacklisted(g.ID) {
		log.Info("leaving blacklisted guild")
		if err := s.GuildLeave(g.ID); err != nil {
			log.Error("failed to leave guild", zap.Error(err))
		}
		return
	}

	if !b.cfg.RegisterCommands {
		log.Debug("slash command registration skipped")
		return
	}
	appID := b.ApplicationID()
	if appID == "" {
		log.Warn("application id unknown, slash commands not registered")
		return
	}
	if _, err := b.registrar.sync(b.runContext(), appID, g.ID, b.registry.SlashDefinitions()); err != nil {
		log.Error("failed to register slash commands", zap.Error(err))
	}
}

// onInteractionCreate is called when an interaction is created
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	handleInteraction(b.runContext(), s, b.registry, i, b.log)
}

func (b *Bot) isGuildBlacklisted(guildID string) bool {
	return slices.Contains(b.cfg.GuildBlacklist, guildID)
}

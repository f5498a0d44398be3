package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	cr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// commandAPI is the part of the session used to manage guild commands.
type commandAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// registrar brings a guild's slash commands in line with the wanted set.
// Writes are paced by limiter; nothing is retried.
type registrar struct {
	api     commandAPI
	limiter *rate.Limiter
	log     *zap.Logger
}

func newRegistrar(api commandAPI, perSecond float64, log *zap.Logger) *registrar {
	return &registrar{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		log:     log,
	}
}

type syncResult struct {
	Created []string
	Deleted []string
	Failed  []string
}

// sync deletes obsolete commands and creates the ones that are missing or
// whose definition changed. Create upserts by name, so changed commands are
// simply created again.
func (r *registrar) sync(ctx context.Context, appID, guildID string, wanted []*discordgo.ApplicationCommand) (syncResult, error) {
	var res syncResult
	log := r.log.With(zap.String("guild_id", guildID))

	existing, err := r.api.ApplicationCommands(appID, guildID, discordgo.WithContext(ctx))
	if err != nil {
		return res, cr.Wrapf(err, "list commands for guild %s", guildID)
	}

	wantedHashes := make(map[string]string, len(wanted))
	for _, def := range wanted {
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		wantedHashes[def.Name] = hashCommand(def)
	}

	remoteHashes := make(map[string]string, len(existing))
	for _, old := range existing {
		if _, ok := wantedHashes[old.Name]; ok {
			remoteHashes[old.Name] = hashCommand(old)
			continue
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return res, err
		}
		log.Info("deleting obsolete command", zap.String("command", old.Name))
		if err := r.api.ApplicationCommandDelete(appID, guildID, old.ID, discordgo.WithContext(ctx)); err != nil {
			log.Error("command delete failed", zap.String("command", old.Name), zap.Error(err))
			res.Failed = append(res.Failed, old.Name)
			continue
		}
		res.Deleted = append(res.Deleted, old.Name)
	}

	for _, def := range wanted {
		if remoteHashes[def.Name] == wantedHashes[def.Name] {
			continue
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return res, err
		}
		if _, err := r.api.ApplicationCommandCreate(appID, guildID, def, discordgo.WithContext(ctx)); err != nil {
			log.Error("command create failed", zap.String("command", def.Name), zap.Error(err))
			res.Failed = append(res.Failed, def.Name)
			continue
		}
		log.Debug("command registered", zap.String("command", def.Name))
		res.Created = append(res.Created, def.Name)
	}

	log.Info("slash commands synced",
		zap.Strings("created", res.Created),
		zap.Strings("deleted", res.Deleted),
		zap.Strings("failed", res.Failed),
	)
	return res, nil
}

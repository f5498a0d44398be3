// Package discipline exposes the moderation actions as slash commands.
package discipline

import (
	"context"

	"server-warden/internal/command"
	"server-warden/internal/interaction"
	"server-warden/internal/moderation"
	"server-warden/internal/respond"

	"github.com/bwmarrin/discordgo"
)

// Moderator runs one moderation action for an invocation.
type Moderator interface {
	Run(ctx context.Context, in *interaction.Interaction, kind moderation.Kind) (*respond.Response, error)
}

// ModerationCommand is /ban, /kick or /timeout depending on Kind.
type ModerationCommand struct {
	Kind      moderation.Kind
	Moderator Moderator
}

// Commands returns the three moderation commands backed by m.
func Commands(m Moderator) []command.Command {
	return []command.Command{
		&ModerationCommand{Kind: moderation.Ban, Moderator: m},
		&ModerationCommand{Kind: moderation.Kick, Moderator: m},
		&ModerationCommand{Kind: moderation.Timeout, Moderator: m},
	}
}

func (c *ModerationCommand) Name() string { return c.Kind.Verb() }

func (c *ModerationCommand) Description() string {
	switch c.Kind {
	case moderation.Ban:
		return "Ban a user from the server"
	case moderation.Kick:
		return "Kick a user from the server"
	default:
		return "Timeout a user for a specified duration"
	}
}

func (c *ModerationCommand) Run(ctx context.Context, inv *command.Invocation) (*respond.Response, error) {
	return c.Moderator.Run(ctx, inv.Interaction, c.Kind)
}

func (c *ModerationCommand) SlashDefinition() *discordgo.ApplicationCommand {
	verb := c.Kind.Verb()
	user := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        moderation.OptUser,
		Description: "The user to " + verb,
		Required:    true,
	}
	reason := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        moderation.OptReason,
		Description: "Reason for the " + verb,
		MaxLength:   moderation.MaxReasonLength,
	}

	var options []*discordgo.ApplicationCommandOption
	switch c.Kind {
	case moderation.Ban:
		minDays := 0.0
		options = []*discordgo.ApplicationCommandOption{user, reason, {
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        moderation.OptDeleteMessages,
			Description: "Delete messages from the last X days (0-7 days)",
			MinValue:    &minDays,
			MaxValue:    moderation.MaxDeleteDays,
		}}
	case moderation.Timeout:
		minMinutes := float64(moderation.MinTimeout)
		options = []*discordgo.ApplicationCommandOption{user, {
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        moderation.OptDuration,
			Description: "Duration in minutes (1-40320, max 28 days)",
			Required:    true,
			MinValue:    &minMinutes,
			MaxValue:    moderation.MaxTimeout,
		}, reason}
	default:
		options = []*discordgo.ApplicationCommandOption{user, reason}
	}

	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options:     options,
	}
}

package discord

import (
	"bytes"
	"context"

	"server-warden/internal/command"
	"server-warden/internal/interaction"
	"server-warden/internal/respond"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// interactionResponder is the part of the session used to answer an
// interaction.
type interactionResponder interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// dispatch runs the registered command for in. It always yields a response.
func dispatch(ctx context.Context, reg *command.Registry, in *interaction.Interaction, log *zap.Logger) *respond.Response {
	cmd := reg.Get(in.CommandName)
	if cmd == nil {
		log.Warn("unknown command", zap.String("command", in.CommandName), zap.String("interaction_id", in.ID))
		return respond.Ephemeral(respond.FailurePrefix + "Unknown command.")
	}

	resp, _ := cmd.Run(ctx, &command.Invocation{Interaction: in})
	if resp == nil {
		resp = respond.Ephemeral(respond.FailurePrefix + "An error occurred while processing the " + in.CommandName + " command.")
	}
	return resp
}

// toInteractionResponse converts a Response into the payload Discord expects.
func toInteractionResponse(resp *respond.Response) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{Content: resp.Content}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	for _, f := range resp.Files {
		data.Files = append(data.Files, &discordgo.File{
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      bytes.NewReader(f.Data),
		})
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

// handleInteraction answers one slash command interaction.
func handleInteraction(ctx context.Context, s interactionResponder, reg *command.Registry, e *discordgo.InteractionCreate, log *zap.Logger) {
	in := interaction.FromEvent(e)
	if in == nil {
		if e != nil && e.Interaction != nil {
			log.Debug("ignoring interaction", zap.Stringer("type", e.Type))
		}
		return
	}

	resp := dispatch(ctx, reg, in, log)
	if err := s.InteractionRespond(e.Interaction, toInteractionResponse(resp), discordgo.WithContext(ctx)); err != nil {
		log.Error("interaction response failed",
			zap.String("command", in.CommandName),
			zap.String("interaction_id", in.ID),
			zap.Error(err),
		)
	}
}

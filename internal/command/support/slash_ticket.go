// Package support exposes the ticket lifecycle as the /ticket command.
package support

import (
	"context"

	"server-warden/internal/command"
	"server-warden/internal/interaction"
	"server-warden/internal/respond"
	"server-warden/internal/ticket"

	"github.com/bwmarrin/discordgo"
)

// Handler runs a /ticket invocation.
type Handler interface {
	Handle(ctx context.Context, in *interaction.Interaction) (*respond.Response, error)
}

type TicketCommand struct {
	Handler Handler
}

func (c *TicketCommand) Name() string        { return "ticket" }
func (c *TicketCommand) Description() string { return "Ticket system commands" }

func (c *TicketCommand) Run(ctx context.Context, inv *command.Invocation) (*respond.Response, error) {
	return c.Handler.Handle(ctx, inv.Interaction)
}

func (c *TicketCommand) SlashDefinition() *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(ticket.Priorities))
	for _, p := range ticket.Priorities {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: p.Label(), Value: string(p)})
	}

	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        ticket.SubCreate,
				Description: "Create a new support ticket",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        ticket.OptTitle,
						Description: "Title/subject of the ticket",
						Required:    true,
						MaxLength:   ticket.MaxTitleLength,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        ticket.OptDescription,
						Description: "Description of your issue or request",
						MaxLength:   ticket.MaxDescriptionLength,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        ticket.OptPriority,
						Description: "Priority level of the ticket",
						Choices:     choices,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        ticket.SubClose,
				Description: "Close the current ticket",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        ticket.OptReason,
						Description: "Reason for closing the ticket",
						MaxLength:   ticket.MaxCloseReasonLength,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        ticket.SubAdd,
				Description: "Add a user to the current ticket",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        ticket.OptUser,
						Description: "User to add to the ticket",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        ticket.SubRemove,
				Description: "Remove a user from the current ticket",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        ticket.OptUser,
						Description: "User to remove from the ticket",
						Required:    true,
					},
				},
			},
		},
	}
}

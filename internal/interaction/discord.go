package interaction

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// FromEvent normalizes a slash command event. It returns nil for anything
// other than an application command.
func FromEvent(e *discordgo.InteractionCreate) *Interaction {
	if e == nil || e.Interaction == nil || e.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	data := e.ApplicationCommandData()

	in := &Interaction{
		ID:            e.ID,
		ApplicationID: e.AppID,
		GuildID:       e.GuildID,
		ChannelID:     e.ChannelID,
		CommandName:   data.Name,
		Locale:        string(e.Locale),
		Resolved:      map[string]User{},
		Options:       convertOptions(data.Options),
	}

	switch {
	case e.Member != nil && e.Member.User != nil:
		in.Member = Member{
			User:        convertUser(e.Member.User),
			Permissions: strconv.FormatInt(e.Member.Permissions, 10),
		}
	case e.User != nil:
		in.Member = Member{User: convertUser(e.User)}
	}

	if data.Resolved != nil {
		for id, u := range data.Resolved.Users {
			if u != nil {
				in.Resolved[id] = convertUser(u)
			}
		}
	}
	return in
}

func convertUser(u *discordgo.User) User {
	return User{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		Bot:           u.Bot,
	}
}

func convertOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	if len(opts) == 0 {
		return nil
	}
	out := make(Options, 0, len(opts))
	for _, o := range opts {
		if o == nil {
			continue
		}
		out = append(out, Option{
			Name:    o.Name,
			Type:    o.Type,
			Value:   o.Value,
			Options: convertOptions(o.Options),
		})
	}
	return out
}

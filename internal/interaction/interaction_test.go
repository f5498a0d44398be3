package interaction

import (
	"testing"

	"server-warden/internal/errs"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEvent(t *testing.T) {
	e := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "i1",
		AppID:     "app",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "g1",
		ChannelID: "c1",
		Locale:    discordgo.EnglishUS,
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: "u1", Username: "mod", Discriminator: "0001"},
			Permissions: 8,
		},
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "ticket",
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Users: map[string]*discordgo.User{"u2": {ID: "u2", Username: "target"}},
			},
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name: "add",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{
					Name:  "user",
					Type:  discordgo.ApplicationCommandOptionUser,
					Value: "u2",
				}},
			}},
		},
	}}

	in := FromEvent(e)
	require.NotNil(t, in)

	want := &Interaction{
		ID:            "i1",
		ApplicationID: "app",
		GuildID:       "g1",
		ChannelID:     "c1",
		CommandName:   "ticket",
		Locale:        "en-US",
		Member: Member{
			User:        User{ID: "u1", Username: "mod", Discriminator: "0001"},
			Permissions: "8",
		},
		Resolved: map[string]User{"u2": {ID: "u2", Username: "target"}},
		Options: Options{{
			Name: "add",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: Options{{
				Name:  "user",
				Type:  discordgo.ApplicationCommandOptionUser,
				Value: "u2",
			}},
		}},
	}
	if diff := cmp.Diff(want, in); diff != "" {
		t.Fatalf("FromEvent mismatch (-want +got):\n%s", diff)
	}

	sub, ok := in.Subcommand()
	require.True(t, ok)
	assert.Equal(t, "u2", sub.Options.UserID("user"))
}

func TestFromEventDirectMessage(t *testing.T) {
	e := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		User: &discordgo.User{ID: "u1", Username: "someone"},
		Data: discordgo.ApplicationCommandInteractionData{Name: "kick"},
	}}
	in := FromEvent(e)
	require.NotNil(t, in)
	assert.False(t, in.InGuild())
	assert.Equal(t, "u1", in.Member.ID)
	assert.Equal(t, "", in.Member.Permissions)
}

func TestFromEventIgnoresComponents(t *testing.T) {
	e := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
	}}
	assert.Nil(t, FromEvent(e))
}

func TestOptionsInt(t *testing.T) {
	opts := Options{
		{Name: "days", Value: float64(3)},
		{Name: "frac", Value: 2.5},
		{Name: "text", Value: "12"},
		{Name: "junk", Value: "x"},
	}

	n, ok, err := opts.Int("days")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	_, ok, err = opts.Int("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = opts.Int("frac")
	assert.True(t, errs.Is(err, errs.KindParse))

	n, _, err = opts.Int("text")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	_, _, err = opts.Int("junk")
	assert.True(t, errs.Is(err, errs.KindParse))
}

func TestUserTag(t *testing.T) {
	assert.Equal(t, "alice#1234", User{Username: "alice", Discriminator: "1234"}.Tag())
	assert.Equal(t, "bob#0", User{Username: "bob"}.Tag())
	assert.Equal(t, "<@42>", User{ID: "42"}.Mention())
}

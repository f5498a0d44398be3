package discord

import (
	"context"
	"errors"
	"io"
	"testing"

	"server-warden/internal/command"
	"server-warden/internal/respond"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func banDefinition() *discordgo.ApplicationCommand {
	zero := 0.0
	return &discordgo.ApplicationCommand{
		Name:        "ban",
		Description: "Ban a user from the server",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "The user to ban", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason for the ban", MaxLength: 512},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "delete_messages", Description: "Days", MinValue: &zero, MaxValue: 7},
		},
	}
}

func TestHashIgnoresServerFields(t *testing.T) {
	local := banDefinition()
	remote := banDefinition()
	remote.ID = "123"
	remote.ApplicationID = "900"
	remote.Version = "456"
	remote.Type = discordgo.ChatApplicationCommand
	remote.Options[0], remote.Options[2] = remote.Options[2], remote.Options[0]

	assert.Equal(t, hashCommand(local), hashCommand(remote))
}

func TestHashDetectsChanges(t *testing.T) {
	base := hashCommand(banDefinition())

	changed := banDefinition()
	changed.Options[1].MaxLength = 100
	assert.NotEqual(t, base, hashCommand(changed))

	changed = banDefinition()
	changed.Options[2].MaxValue = 14
	assert.NotEqual(t, base, hashCommand(changed))

	changed = banDefinition()
	changed.Description = "Ban someone"
	assert.NotEqual(t, base, hashCommand(changed))
}

type fakeCommandAPI struct {
	existing  []*discordgo.ApplicationCommand
	listErr   error
	failNames map[string]bool
	created   []string
	deleted   []string
}

func (f *fakeCommandAPI) ApplicationCommands(_, _ string, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	return f.existing, f.listErr
}

func (f *fakeCommandAPI) ApplicationCommandCreate(_, _ string, cmd *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	if f.failNames[cmd.Name] {
		return nil, errors.New("HTTP 400")
	}
	f.created = append(f.created, cmd.Name)
	return cmd, nil
}

func (f *fakeCommandAPI) ApplicationCommandDelete(_, _, cmdID string, _ ...discordgo.RequestOption) error {
	f.deleted = append(f.deleted, cmdID)
	return nil
}

func TestRegistrarSync(t *testing.T) {
	unchanged := banDefinition()
	unchanged.ID = "1"
	stale := &discordgo.ApplicationCommand{ID: "2", Name: "kick", Description: "old text", Type: discordgo.ChatApplicationCommand}
	obsolete := &discordgo.ApplicationCommand{ID: "3", Name: "music", Description: "Play music", Type: discordgo.ChatApplicationCommand}

	api := &fakeCommandAPI{
		existing:  []*discordgo.ApplicationCommand{unchanged, stale, obsolete},
		failNames: map[string]bool{"debug": true},
	}
	r := newRegistrar(api, 1000, zap.NewNop())

	wanted := []*discordgo.ApplicationCommand{
		banDefinition(),
		{Name: "kick", Description: "Kick a user from the server"},
		{Name: "ticket", Description: "Ticket system commands"},
		{Name: "debug", Description: "Show debug information (for development)"},
	}
	res, err := r.sync(context.Background(), "900", "g1", wanted)
	require.NoError(t, err)

	if diff := cmp.Diff(syncResult{
		Created: []string{"kick", "ticket"},
		Deleted: []string{"music"},
		Failed:  []string{"debug"},
	}, res); diff != "" {
		t.Errorf("sync result (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"3"}, api.deleted)
}

func TestRegistrarSyncListFailure(t *testing.T) {
	api := &fakeCommandAPI{listErr: errors.New("HTTP 403")}
	_, err := newRegistrar(api, 1000, zap.NewNop()).sync(context.Background(), "900", "g1", nil)
	assert.Error(t, err)
	assert.Empty(t, api.created)
}

func TestToInteractionResponse(t *testing.T) {
	got := toInteractionResponse(&respond.Response{
		Content:   "see file",
		Ephemeral: true,
		Files:     []respond.File{{Name: "debug.txt", ContentType: "text/plain; charset=utf-8", Data: []byte("hello")}},
	})
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, got.Type)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, got.Data.Flags)
	require.Len(t, got.Data.Files, 1)
	assert.Equal(t, "debug.txt", got.Data.Files[0].Name)
	body, err := io.ReadAll(got.Data.Files[0].Reader)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	public := toInteractionResponse(respond.Public("done"))
	assert.Zero(t, public.Data.Flags)
	assert.Empty(t, public.Data.Files)
}

type recordingResponder struct {
	responses []*discordgo.InteractionResponse
}

func (r *recordingResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	r.responses = append(r.responses, resp)
	return nil
}

func slashEvent(name string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "i1",
		AppID:   "900",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "g1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "u1", Username: "alice"}, Permissions: 8},
		Data:    discordgo.ApplicationCommandInteractionData{Name: name},
	}}
}

func TestHandleInteraction(t *testing.T) {
	reg := command.NewRegistry()
	require.NoError(t, reg.Register(&command.Func{
		CommandName: "ping",
		RunFunc: func(_ context.Context, inv *command.Invocation) (*respond.Response, error) {
			return respond.Public("pong " + inv.Interaction.Member.Username), nil
		},
	}))
	require.NoError(t, reg.Register(&command.Func{
		CommandName: "broken",
		RunFunc: func(context.Context, *command.Invocation) (*respond.Response, error) {
			return nil, errors.New("boom")
		},
	}))

	s := &recordingResponder{}
	handleInteraction(context.Background(), s, reg, slashEvent("ping"), zap.NewNop())
	handleInteraction(context.Background(), s, reg, slashEvent("nope"), zap.NewNop())
	handleInteraction(context.Background(), s, reg, slashEvent("broken"), zap.NewNop())

	ping := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing}}
	handleInteraction(context.Background(), s, reg, ping, zap.NewNop())

	require.Len(t, s.responses, 3)
	assert.Equal(t, "pong alice", s.responses[0].Data.Content)
	assert.Equal(t, "❌ Unknown command.", s.responses[1].Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, s.responses[1].Data.Flags)
	assert.Equal(t, "❌ An error occurred while processing the broken command.", s.responses[2].Data.Content)
}

package moderation

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"server-warden/internal/errs"
	"server-warden/internal/gate"
	"server-warden/internal/interaction"
	"server-warden/internal/perm"
	"server-warden/internal/platform"

	"github.com/bwmarrin/discordgo"
	cr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	calls []platform.Action
	err   error
}

func (f *fakeExecutor) Execute(_ context.Context, a platform.Action) ([]byte, error) {
	f.calls = append(f.calls, a)
	return nil, f.err
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newService(exec Executor) *Service {
	s := NewService(exec, gate.New("900"), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func invocation(mask perm.Mask, opts ...interaction.Option) *interaction.Interaction {
	return &interaction.Interaction{
		ApplicationID: "900",
		GuildID:       "g1",
		ChannelID:     "c1",
		Member: interaction.Member{
			User:        interaction.User{ID: "100", Username: "mod", Discriminator: "0"},
			Permissions: mask.String(),
		},
		Resolved: map[string]interaction.User{
			"200": {ID: "200", Username: "spammer", Discriminator: "0"},
		},
		Options: interaction.Options(opts),
	}
}

func userOpt(id string) interaction.Option {
	return interaction.Option{Name: OptUser, Type: discordgo.ApplicationCommandOptionUser, Value: id}
}

func intOpt(name string, v float64) interaction.Option {
	return interaction.Option{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: v}
}

func strOpt(name, v string) interaction.Option {
	return interaction.Option{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v}
}

func TestAdminBanWithoutReason(t *testing.T) {
	exec := &fakeExecutor{}
	resp, err := newService(exec).Run(context.Background(), invocation(perm.Mask(perm.Administrator), userOpt("200")), Ban)
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	call := exec.calls[0]
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, DefaultReason, call.Reason)

	assert.False(t, resp.Ephemeral)
	assert.Contains(t, resp.Content, "spammer")
	assert.Contains(t, resp.Content, "**Messages Deleted:** None")
	assert.Contains(t, resp.Content, "**Reason:** No reason provided")
	assert.Contains(t, resp.Content, "<t:1714564800:F>")
}

func TestBanDeleteWindow(t *testing.T) {
	exec := &fakeExecutor{}
	resp, err := newService(exec).Run(context.Background(),
		invocation(perm.Mask(perm.BanMembers), userOpt("200"), intOpt(OptDeleteMessages, 3), strOpt(OptReason, "raid")), Ban)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "Last 3 days")
	assert.Equal(t, "raid", exec.calls[0].Reason)
	assert.Equal(t, map[string]int{"delete_message_seconds": 3 * 86400}, exec.calls[0].Body)
}

func TestKickOutsideGuild(t *testing.T) {
	exec := &fakeExecutor{}
	in := invocation(perm.Mask(perm.Administrator), userOpt("200"))
	in.GuildID = ""

	resp, err := newService(exec).Run(context.Background(), in, Kick)
	require.Error(t, err)
	assert.True(t, resp.Ephemeral)
	assert.Contains(t, resp.Content, "can only be used in a server")
	assert.Empty(t, exec.calls)
}

func TestBanConflict(t *testing.T) {
	exec := &fakeExecutor{err: errs.Mark(cr.New("HTTP 409"), errs.KindConflict)}
	resp, err := newService(exec).Run(context.Background(), invocation(perm.Mask(perm.BanMembers), userOpt("200")), Ban)
	require.Error(t, err)
	assert.Len(t, exec.calls, 1)
	assert.True(t, resp.Ephemeral)
	assert.Contains(t, resp.Content, "already banned")
}

func TestPlatformFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		err  error
		want string
	}{
		{"kick forbidden", Kick, errs.Mark(cr.New("403"), errs.KindPermissionDenied), "**Kick Members** permission and my role is higher"},
		{"timeout forbidden", Timeout, errs.Mark(cr.New("403"), errs.KindPermissionDenied), "**Moderate Members**"},
		{"kick missing member", Kick, errs.Mark(cr.New("404"), errs.KindTargetNotFound), "User not found in this server."},
		{"timeout bad request", Timeout, errs.WithDetail(errs.Mark(cr.New("400"), errs.KindMalformedRequest), "Invalid Form Body"), "Invalid request: Invalid Form Body"},
		{"ban transient", Ban, errs.Mark(cr.New("500"), errs.KindTransient), "Failed to ban the user. Please try again later."},
		{"no token", Kick, errs.New(errs.KindConfiguration, "Bot token not configured."), "Bot token not configured."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{err: tt.err}
			opts := []interaction.Option{userOpt("200")}
			if tt.kind == Timeout {
				opts = append(opts, intOpt(OptDuration, 10))
			}
			resp, err := newService(exec).Run(context.Background(), invocation(perm.Mask(perm.Administrator), opts...), tt.kind)
			require.Error(t, err)
			assert.True(t, resp.Ephemeral)
			assert.True(t, strings.HasPrefix(resp.Content, "❌ "))
			assert.Contains(t, resp.Content, tt.want)
		})
	}
}

func TestTimeout(t *testing.T) {
	exec := &fakeExecutor{}
	resp, err := newService(exec).Run(context.Background(),
		invocation(perm.Mask(perm.ModerateMembers), userOpt("200"), intOpt(OptDuration, 90)), Timeout)
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, http.MethodPatch, exec.calls[0].Method)
	assert.Equal(t, map[string]string{"communication_disabled_until": "2024-05-01T13:30:00Z"}, exec.calls[0].Body)
	assert.Contains(t, resp.Content, "1 hour and 30 minutes")
	assert.Contains(t, resp.Content, "<t:1714570200:F>")
}

func TestParseRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		opts interaction.Options
	}{
		{"timeout missing duration", Timeout, interaction.Options{userOpt("200")}},
		{"timeout too long", Timeout, interaction.Options{userOpt("200"), intOpt(OptDuration, MaxTimeout+1)}},
		{"timeout zero", Timeout, interaction.Options{userOpt("200"), intOpt(OptDuration, 0)}},
		{"ban window", Ban, interaction.Options{userOpt("200"), intOpt(OptDeleteMessages, 8)}},
		{"reason too long", Kick, interaction.Options{userOpt("200"), strOpt(OptReason, strings.Repeat("a", MaxReasonLength+1))}},
		{"fractional", Ban, interaction.Options{userOpt("200"), intOpt(OptDeleteMessages, 1.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.kind, tt.opts)
			assert.True(t, errs.Is(err, errs.KindParse), "%v", err)
		})
	}
}

func TestGateRunsBeforeOptionErrors(t *testing.T) {
	exec := &fakeExecutor{}
	in := invocation(0, userOpt("200"), intOpt(OptDuration, 0))
	_, err := newService(exec).Run(context.Background(), in, Timeout)
	assert.True(t, errs.Is(err, errs.KindAuthorization))
	assert.Empty(t, exec.calls)
}

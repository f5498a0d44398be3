package support

import (
	"context"
	"testing"

	"server-warden/internal/command"
	"server-warden/internal/interaction"
	"server-warden/internal/respond"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFunc func(ctx context.Context, in *interaction.Interaction) (*respond.Response, error)

func (f handlerFunc) Handle(ctx context.Context, in *interaction.Interaction) (*respond.Response, error) {
	return f(ctx, in)
}

func TestRunDelegates(t *testing.T) {
	want := &interaction.Interaction{ID: "i1"}
	c := &TicketCommand{Handler: handlerFunc(func(_ context.Context, in *interaction.Interaction) (*respond.Response, error) {
		assert.Same(t, want, in)
		return respond.Ephemeral("ok"), nil
	})}
	resp, err := c.Run(context.Background(), &command.Invocation{Interaction: want})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
}

func TestSlashDefinition(t *testing.T) {
	def := (&TicketCommand{}).SlashDefinition()
	assert.Equal(t, "ticket", def.Name)

	var subs []string
	for _, o := range def.Options {
		subs = append(subs, o.Name)
	}
	assert.Equal(t, []string{"create", "close", "add", "remove"}, subs)

	priority := def.Options[0].Options[2]
	var choices []string
	for _, ch := range priority.Choices {
		choices = append(choices, ch.Name+"="+ch.Value.(string))
	}
	if diff := cmp.Diff([]string{"Low=low", "Medium=medium", "High=high", "Urgent=urgent"}, choices); diff != "" {
		t.Errorf("priority choices (-want +got):\n%s", diff)
	}
	assert.Equal(t, 100, def.Options[0].Options[0].MaxLength)
	assert.Equal(t, 500, def.Options[1].Options[0].MaxLength)
}

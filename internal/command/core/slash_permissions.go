// Package core holds the informational commands.
package core

import (
	"context"
	"fmt"
	"strings"

	"server-warden/internal/command"
	"server-warden/internal/errs"
	"server-warden/internal/perm"
	"server-warden/internal/respond"

	"github.com/bwmarrin/discordgo"
)

const optUser = "user"

type PermissionsCommand struct{}

func (c *PermissionsCommand) Name() string        { return "permissions" }
func (c *PermissionsCommand) Description() string { return "Check permissions for a user" }

func (c *PermissionsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        optUser,
				Description: "The user to check permissions for",
			},
		},
	}
}

// Run reports the caller's own guild-level permissions. Other members'
// permissions are not part of the interaction payload, so asking for someone
// else is refused.
func (c *PermissionsCommand) Run(_ context.Context, inv *command.Invocation) (*respond.Response, error) {
	in := inv.Interaction
	if id := in.Options.UserID(optUser); id != "" && id != in.Member.ID {
		if _, ok := in.ResolveUser(id); ok {
			err := errs.New(errs.KindInvalidTarget,
				"I can only check your own permissions. Use this command without specifying a user to check your permissions.")
			return respond.Failure(err, nil), err
		}
	}

	mask, err := perm.Parse(in.Member.Permissions)
	if err != nil {
		return respond.Failure(err, nil), err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔑 **Permissions for %s**\n\n", in.Member.Username)

	if key := mask.KeyFlags(); len(key) > 0 {
		b.WriteString("🌟 **Key Permissions:**\n")
		for _, f := range key {
			fmt.Fprintf(&b, "✅ %s\n", f.Name())
		}
		b.WriteString("\n")
	}

	switch mask.Role() {
	case perm.Admin:
		b.WriteString("👑 **Role:** Administrator (has all permissions)\n\n")
	case perm.Moderator:
		b.WriteString("🛡️ **Role:** Moderator\n\n")
	default:
		b.WriteString("👤 **Role:** Member\n\n")
	}

	fmt.Fprintf(&b, "📊 **Permission Count:** %d/%d\n", len(mask.Flags()), len(perm.Names))
	fmt.Fprintf(&b, "🆔 **User ID:** `%s`\n", in.Member.ID)
	fmt.Fprintf(&b, "🏰 **Guild ID:** `%s`\n\n", in.GuildID)
	fmt.Fprintf(&b, "🔢 **Raw Permissions:** `%s`\n\n", mask)

	if names := mask.Names(); len(names) > 0 {
		b.WriteString("📜 **All Permissions:**\n")
		for _, n := range names {
			fmt.Fprintf(&b, "• %s\n", n)
		}
		b.WriteString("\n")
	}

	b.WriteString("💡 **Note:** This shows server-level permissions. Channel-specific permissions may override these.")
	return respond.Ephemeral(respond.Truncate(b.String())), nil
}

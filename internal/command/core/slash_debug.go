package core

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"server-warden/internal/command"
	"server-warden/internal/interaction"
	"server-warden/internal/perm"
	"server-warden/internal/respond"
	"server-warden/internal/version"
	"server-warden/pkg/util"

	"github.com/bwmarrin/discordgo"
)

// JobStatus reports background work.
type JobStatus interface {
	Status() string
}

type DebugCommand struct {
	Jobs            JobStatus
	Started         time.Time
	TokenConfigured bool
	AppIDConfigured bool

	now func() time.Time
}

func (c *DebugCommand) Name() string        { return "debug" }
func (c *DebugCommand) Description() string { return "Show debug information (for development)" }

func (c *DebugCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *DebugCommand) Run(_ context.Context, inv *command.Invocation) (*respond.Response, error) {
	return respond.WithAttachment(c.render(inv.Interaction), "debug", true), nil
}

func (c *DebugCommand) render(in *interaction.Interaction) string {
	now := time.Now()
	if c.now != nil {
		now = c.now()
	}
	guild := in.GuildID
	if guild == "" {
		guild = "DM"
	}

	var b strings.Builder
	b.WriteString("🔧 **Debug Information**\n\n")

	b.WriteString("🌍 **Environment**\n")
	fmt.Fprintf(&b, "⏰ **Timestamp:** %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "🏃 **Runtime:** %s %s\n", version.AppName, version.Version)
	fmt.Fprintf(&b, "📡 **Discord API:** v%s\n", discordgo.APIVersion)
	fmt.Fprintf(&b, "🔗 **Framework:** discordgo %s\n\n", discordgo.VERSION)

	b.WriteString("📨 **Interaction Data**\n")
	fmt.Fprintf(&b, "🆔 **Interaction ID:** `%s`\n", in.ID)
	fmt.Fprintf(&b, "📺 **Channel ID:** `%s`\n", in.ChannelID)
	fmt.Fprintf(&b, "🏰 **Guild ID:** `%s`\n", guild)
	fmt.Fprintf(&b, "🤖 **Application ID:** `%s`\n\n", in.ApplicationID)

	b.WriteString("👤 **User Information**\n")
	fmt.Fprintf(&b, "🆔 **User ID:** `%s`\n", in.Member.ID)
	fmt.Fprintf(&b, "📛 **Username:** %s\n", in.Member.Tag())
	fmt.Fprintf(&b, "🌐 **Locale:** %s\n\n", orNA(in.Locale))

	b.WriteString("🔑 **Permissions**\n")
	if mask, err := perm.Parse(in.Member.Permissions); err != nil {
		fmt.Fprintf(&b, "🔢 **Raw Permissions:** `%s` (invalid)\n\n", in.Member.Permissions)
	} else {
		fmt.Fprintf(&b, "🔢 **Raw Permissions:** `%s`\n", mask)
		for _, row := range []struct {
			glyph string
			flag  perm.Flag
		}{
			{"👑", perm.Administrator},
			{"🏰", perm.ManageGuild},
			{"📺", perm.ManageChannels},
			{"👢", perm.KickMembers},
			{"🔨", perm.BanMembers},
			{"⏰", perm.ModerateMembers},
		} {
			fmt.Fprintf(&b, "%s **%s:** %s\n", row.glyph, row.flag.Name(), check(mask.Has(row.flag)))
		}
		fmt.Fprintf(&b, "🎭 **Role:** %s\n\n", mask.Role())
	}

	b.WriteString("📋 **Command Data**\n")
	fmt.Fprintf(&b, "📛 **Command Name:** %s\n", in.CommandName)
	if len(in.Options) == 0 {
		b.WriteString("⚙️ **Options:** None\n")
	} else {
		fmt.Fprintf(&b, "⚙️ **Options:** %d\n", len(in.Options))
		writeOptions(&b, in.Options, "  ")
	}
	b.WriteString("\n")

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	b.WriteString("⚙️ **System**\n")
	fmt.Fprintf(&b, "🔄 **Go Version:** %s\n", runtime.Version())
	fmt.Fprintf(&b, "🧵 **Goroutines:** %d\n", runtime.NumGoroutine())
	fmt.Fprintf(&b, "💾 **Memory Usage:** %d MB\n", mem.HeapAlloc/1024/1024)
	if !c.Started.IsZero() {
		fmt.Fprintf(&b, "⏱️ **Process Uptime:** %s (since %s)\n",
			util.FormatDuration(int64(now.Sub(c.Started)/time.Minute)),
			util.DiscordTimestamp(c.Started, util.ShortDateTime))
	}
	b.WriteString("\n")

	b.WriteString("🔐 **Configuration**\n")
	fmt.Fprintf(&b, "🤖 **Token Configured:** %s\n", check(c.TokenConfigured))
	fmt.Fprintf(&b, "🆔 **App ID Configured:** %s\n\n", check(c.AppIDConfigured))

	if c.Jobs != nil {
		b.WriteString("🗓️ **Background Jobs**\n")
		b.WriteString(c.Jobs.Status())
		b.WriteString("\n\n")
	}

	b.WriteString("⚠️ **Note:** This information is for debugging purposes only.")
	return b.String()
}

func writeOptions(b *strings.Builder, opts interaction.Options, indent string) {
	for _, o := range opts {
		if o.Value == nil {
			fmt.Fprintf(b, "%s• `%s` (type: %d)\n", indent, o.Name, o.Type)
		} else {
			fmt.Fprintf(b, "%s• `%s`: \"%v\" (type: %d)\n", indent, o.Name, o.Value, o.Type)
		}
		writeOptions(b, o.Options, indent+"  ")
	}
}

func check(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

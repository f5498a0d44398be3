// Package interaction holds the normalized view of one slash command
// invocation. Handlers only read it; the transport builds it.
package interaction

import (
	"fmt"
	"math"
	"strconv"

	"server-warden/internal/errs"

	"github.com/bwmarrin/discordgo"
)

// User is the minimal record of a resolved user.
type User struct {
	ID            string
	Username      string
	Discriminator string
	Bot           bool
}

// Tag renders username#discriminator.
func (u User) Tag() string {
	if u.Discriminator == "" {
		return u.Username + "#0"
	}
	return u.Username + "#" + u.Discriminator
}

// Mention renders a user mention.
func (u User) Mention() string {
	return "<@" + u.ID + ">"
}

// Member is the invoking user and their raw guild permissions.
type Member struct {
	User
	Permissions string
}

// Option is one command option as sent by Discord.
type Option struct {
	Name    string
	Type    discordgo.ApplicationCommandOptionType
	Value   any
	Options Options
}

// Options is an ordered option list.
type Options []Option

// Interaction is one command invocation.
type Interaction struct {
	ID            string
	ApplicationID string
	GuildID       string
	ChannelID     string
	CommandName   string
	Locale        string
	Member        Member
	Resolved      map[string]User
	Options       Options
}

// InGuild reports whether the invocation came from a guild channel.
func (in *Interaction) InGuild() bool {
	return in.GuildID != ""
}

// ResolveUser looks id up in the resolved users.
func (in *Interaction) ResolveUser(id string) (User, bool) {
	if id == "" || in.Resolved == nil {
		return User{}, false
	}
	u, ok := in.Resolved[id]
	return u, ok
}

// Subcommand returns the first option when it is a subcommand.
func (in *Interaction) Subcommand() (Option, bool) {
	if len(in.Options) == 0 {
		return Option{}, false
	}
	first := in.Options[0]
	if first.Type != discordgo.ApplicationCommandOptionSubCommand {
		return Option{}, false
	}
	return first, true
}

// Get returns the option named name.
func (o Options) Get(name string) (Option, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

// String returns the string value of name, or "" when absent.
func (o Options) String(name string) string {
	opt, ok := o.Get(name)
	if !ok || opt.Value == nil {
		return ""
	}
	switch v := opt.Value.(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the integer value of name. ok is false when the option is
// absent; a non-integral value is a parse error.
func (o Options) Int(name string) (n int64, ok bool, err error) {
	opt, found := o.Get(name)
	if !found || opt.Value == nil {
		return 0, false, nil
	}
	switch v := opt.Value.(type) {
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, true, errs.Newf(errs.KindParse, "Option %s must be a whole number.", name)
		}
		return int64(v), true, nil
	case int:
		return int64(v), true, nil
	case int64:
		return v, true, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, true, errs.Newf(errs.KindParse, "Option %s must be a whole number.", name)
		}
		return n, true, nil
	default:
		return 0, true, errs.Newf(errs.KindParse, "Option %s must be a whole number.", name)
	}
}

// UserID returns the snowflake carried by a user option.
func (o Options) UserID(name string) string {
	return o.String(name)
}

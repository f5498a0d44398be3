// Package moderation implements /ban, /kick and /timeout: admit the caller,
// validate options, make exactly one platform call and describe the outcome.
package moderation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"server-warden/internal/errs"
	"server-warden/internal/gate"
	"server-warden/internal/interaction"
	"server-warden/internal/perm"
	"server-warden/internal/platform"
	"server-warden/pkg/util"
)

const (
	DefaultReason   = "No reason provided"
	MaxReasonLength = 512
	MaxDeleteDays   = 7
	MinTimeout      = 1
	MaxTimeout      = 40320 // 28 days
)

// Option names shared with the slash definitions.
const (
	OptUser           = "user"
	OptReason         = "reason"
	OptDeleteMessages = "delete_messages"
	OptDuration       = "duration"
)

// Kind selects the moderation action.
type Kind int

const (
	Ban Kind = iota
	Kick
	Timeout
)

// Verb is the imperative used in messages.
func (k Kind) Verb() string {
	switch k {
	case Ban:
		return "ban"
	case Kick:
		return "kick"
	default:
		return "timeout"
	}
}

// Capability is the flag a caller needs for k.
func (k Kind) Capability() perm.Flag {
	switch k {
	case Ban:
		return perm.BanMembers
	case Kick:
		return perm.KickMembers
	default:
		return perm.ModerateMembers
	}
}

// Requirement is what the gate checks before k runs.
func (k Kind) Requirement() gate.Requirement {
	return gate.Requirement{
		GuildOnly:  true,
		Capability: k.Capability(),
		Verb:       k.Verb(),
		Target:     true,
	}
}

// Action is one validated moderation request.
type Action struct {
	Kind     Kind
	TargetID string
	Reason   string
	// DeleteDays applies to Ban only.
	DeleteDays int
	// Minutes applies to Timeout only.
	Minutes int64
}

// Parse validates the options of a kind invocation.
func Parse(kind Kind, opts interaction.Options) (Action, error) {
	a := Action{
		Kind:     kind,
		TargetID: opts.UserID(OptUser),
		Reason:   strings.TrimSpace(opts.String(OptReason)),
	}
	if a.Reason == "" {
		a.Reason = DefaultReason
	}
	if utf8.RuneCountInString(a.Reason) > MaxReasonLength {
		return Action{}, errs.Newf(errs.KindParse, "Reason must be at most %d characters.", MaxReasonLength)
	}

	switch kind {
	case Ban:
		days, ok, err := opts.Int(OptDeleteMessages)
		if err != nil {
			return Action{}, err
		}
		if ok && (days < 0 || days > MaxDeleteDays) {
			return Action{}, errs.Newf(errs.KindParse, "Message deletion must be between 0 and %d days.", MaxDeleteDays)
		}
		a.DeleteDays = int(days)
	case Timeout:
		minutes, ok, err := opts.Int(OptDuration)
		if err != nil {
			return Action{}, err
		}
		if !ok {
			return Action{}, errs.New(errs.KindParse, "Missing required parameters.")
		}
		if minutes < MinTimeout || minutes > MaxTimeout {
			return Action{}, errs.Newf(errs.KindParse, "Duration must be between %d and %d minutes.", MinTimeout, MaxTimeout)
		}
		a.Minutes = minutes
	}
	return a, nil
}

// Until is when a timeout started at now expires.
func (a Action) Until(now time.Time) time.Time {
	return now.Add(time.Duration(a.Minutes) * time.Minute)
}

// Platform returns the REST call that carries out a in guildID.
func (a Action) Platform(guildID string, now time.Time) platform.Action {
	switch a.Kind {
	case Ban:
		return platform.Ban(guildID, a.TargetID, a.Reason, a.DeleteDays)
	case Kick:
		return platform.Kick(guildID, a.TargetID, a.Reason)
	default:
		return platform.Timeout(guildID, a.TargetID, a.Reason, a.Until(now))
	}
}

// Summary is the public success message.
func (a Action) Summary(moderator, target interaction.User, now time.Time) string {
	var b strings.Builder
	switch a.Kind {
	case Ban:
		b.WriteString("✅ **User Banned**\n\n")
		fmt.Fprintf(&b, "👤 **User:** %s\n", target.Tag())
		fmt.Fprintf(&b, "👮 **Banned by:** %s\n", moderator.Tag())
		fmt.Fprintf(&b, "📝 **Reason:** %s\n", a.Reason)
		fmt.Fprintf(&b, "🗑️ **Messages Deleted:** %s\n", deletedWindow(a.DeleteDays))
		fmt.Fprintf(&b, "⏰ **Time:** %s", util.DiscordTimestamp(now, util.LongDateTime))
	case Kick:
		b.WriteString("✅ **User Kicked**\n\n")
		fmt.Fprintf(&b, "👤 **User:** %s\n", target.Tag())
		fmt.Fprintf(&b, "👮 **Kicked by:** %s\n", moderator.Tag())
		fmt.Fprintf(&b, "📝 **Reason:** %s\n", a.Reason)
		fmt.Fprintf(&b, "⏰ **Time:** %s", util.DiscordTimestamp(now, util.LongDateTime))
	default:
		b.WriteString("✅ **User Timed Out**\n\n")
		fmt.Fprintf(&b, "👤 **User:** %s\n", target.Tag())
		fmt.Fprintf(&b, "⏰ **Duration:** %s\n", util.FormatDuration(a.Minutes))
		fmt.Fprintf(&b, "📝 **Reason:** %s\n", a.Reason)
		fmt.Fprintf(&b, "⏱️ **Expires:** %s", util.DiscordTimestamp(a.Until(now), util.LongDateTime))
	}
	return b.String()
}

func deletedWindow(days int) string {
	switch {
	case days <= 0:
		return "None"
	case days == 1:
		return "Last 1 day"
	default:
		return fmt.Sprintf("Last %d days", days)
	}
}

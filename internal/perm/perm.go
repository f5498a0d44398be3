// Package perm decodes Discord permission bitmasks.
package perm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"server-warden/internal/errs"

	"github.com/bwmarrin/discordgo"
)

// Flag is a single capability bit.
type Flag uint64

const (
	CreateInstantInvite Flag = Flag(discordgo.PermissionCreateInstantInvite)
	KickMembers         Flag = Flag(discordgo.PermissionKickMembers)
	BanMembers          Flag = Flag(discordgo.PermissionBanMembers)
	Administrator       Flag = Flag(discordgo.PermissionAdministrator)
	ManageChannels      Flag = Flag(discordgo.PermissionManageChannels)
	ManageGuild         Flag = Flag(discordgo.PermissionManageGuild)
	AddReactions        Flag = Flag(discordgo.PermissionAddReactions)
	ViewAuditLogs       Flag = Flag(discordgo.PermissionViewAuditLogs)
	ViewChannel         Flag = Flag(discordgo.PermissionViewChannel)
	SendMessages        Flag = Flag(discordgo.PermissionSendMessages)
	ManageMessages      Flag = Flag(discordgo.PermissionManageMessages)
	ReadMessageHistory  Flag = Flag(discordgo.PermissionReadMessageHistory)
	ManageRoles         Flag = Flag(discordgo.PermissionManageRoles)
	ModerateMembers     Flag = Flag(discordgo.PermissionModerateMembers)
)

// Names maps every known bit to its display name.
var Names = map[Flag]string{
	0x1:           "Create Instant Invite",
	0x2:           "Kick Members",
	0x4:           "Ban Members",
	0x8:           "Administrator",
	0x10:          "Manage Channels",
	0x20:          "Manage Guild",
	0x40:          "Add Reactions",
	0x80:          "View Audit Log",
	0x100:         "Priority Speaker",
	0x200:         "Stream",
	0x400:         "View Channel",
	0x800:         "Send Messages",
	0x1000:        "Send TTS Messages",
	0x2000:        "Manage Messages",
	0x4000:        "Embed Links",
	0x8000:        "Attach Files",
	0x10000:       "Read Message History",
	0x20000:       "Mention Everyone",
	0x40000:       "Use External Emojis",
	0x80000:       "View Guild Insights",
	0x100000:      "Connect",
	0x200000:      "Speak",
	0x400000:      "Mute Members",
	0x800000:      "Deafen Members",
	0x1000000:     "Move Members",
	0x2000000:     "Use Voice Activity",
	0x4000000:     "Change Nickname",
	0x8000000:     "Manage Nicknames",
	0x10000000:    "Manage Roles",
	0x20000000:    "Manage Webhooks",
	0x40000000:    "Manage Emojis and Stickers",
	0x80000000:    "Use Application Commands",
	0x100000000:   "Request to Speak",
	0x200000000:   "Manage Events",
	0x400000000:   "Manage Threads",
	0x800000000:   "Create Public Threads",
	0x1000000000:  "Create Private Threads",
	0x2000000000:  "Use External Stickers",
	0x4000000000:  "Send Messages in Threads",
	0x8000000000:  "Use Embedded Activities",
	0x10000000000: "Moderate Members",
}

// moderatorFlags make a non-administrator a moderator.
var moderatorFlags = []Flag{ManageGuild, BanMembers, KickMembers, ModerateMembers, ManageRoles, ManageChannels}

// Name returns the display name of f, or its hex value when unnamed.
func (f Flag) Name() string {
	if n, ok := Names[f]; ok {
		return n
	}
	return fmt.Sprintf("0x%x", uint64(f))
}

// Role is the coarse classification of a mask.
type Role int

const (
	Member Role = iota
	Moderator
	Admin
)

func (r Role) String() string {
	switch r {
	case Admin:
		return "Administrator"
	case Moderator:
		return "Moderator"
	default:
		return "Member"
	}
}

// Mask is a raw permission bitmask.
type Mask uint64

// Parse decodes the decimal string Discord sends. An empty string is the zero
// mask.
func Parse(raw string) (Mask, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.Wrap(errs.Newf(errs.KindParse, "Invalid permission value %q.", raw), err.Error())
	}
	return Mask(v), nil
}

// Has reports whether every bit of f is set. It does not apply the
// administrator override; see Allows.
func (m Mask) Has(f Flag) bool {
	return Flag(m)&f == f
}

// Allows reports whether m grants f, counting administrator as every
// capability.
func (m Mask) Allows(f Flag) bool {
	return m.Has(Administrator) || m.Has(f)
}

// Role classifies m.
func (m Mask) Role() Role {
	if m.Has(Administrator) {
		return Admin
	}
	for _, f := range moderatorFlags {
		if m.Has(f) {
			return Moderator
		}
	}
	return Member
}

// Flags returns the named flags set in m, lowest bit first.
func (m Mask) Flags() []Flag {
	var out []Flag
	for f := range Names {
		if m.Has(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// KeyFlags returns the moderation-relevant flags set in m, lowest bit first.
func (m Mask) KeyFlags() []Flag {
	var out []Flag
	for _, f := range m.Flags() {
		if f == Administrator || isModeratorFlag(f) {
			out = append(out, f)
		}
	}
	return out
}

// Names returns the display names of the flags set in m, lowest bit first.
func (m Mask) Names() []string {
	flags := m.Flags()
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, f.Name())
	}
	return out
}

func isModeratorFlag(f Flag) bool {
	for _, mf := range moderatorFlags {
		if mf == f {
			return true
		}
	}
	return false
}

func (m Mask) String() string {
	return strconv.FormatUint(uint64(m), 10)
}

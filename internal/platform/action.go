package platform

import (
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Action describes one REST call against the Discord API.
type Action struct {
	// Name identifies the action in logs.
	Name   string
	Method string
	URL    string
	// Bucket is the discordgo rate-limit bucket; defaults to URL.
	Bucket string
	Body   any
	// Reason is sent as the audit-log reason when set.
	Reason string
	// AllowConflict classifies 409 as Conflict instead of a transient failure.
	AllowConflict bool
}

// Ban bans userID from guildID, deleting the given days of messages.
func Ban(guildID, userID, reason string, deleteDays int) Action {
	return Action{
		Name:   "ban",
		Method: http.MethodPut,
		URL:    discordgo.EndpointGuildBan(guildID, userID),
		Bucket: discordgo.EndpointGuildBans(guildID),
		Body: map[string]int{
			"delete_message_seconds": deleteDays * 24 * 60 * 60,
		},
		Reason:        reason,
		AllowConflict: true,
	}
}

// Kick removes userID from guildID.
func Kick(guildID, userID, reason string) Action {
	return Action{
		Name:   "kick",
		Method: http.MethodDelete,
		URL:    discordgo.EndpointGuildMember(guildID, userID),
		Bucket: discordgo.EndpointGuildMembers(guildID),
		Reason: reason,
	}
}

// Timeout disables communication for userID until until.
func Timeout(guildID, userID, reason string, until time.Time) Action {
	return Action{
		Name:   "timeout",
		Method: http.MethodPatch,
		URL:    discordgo.EndpointGuildMember(guildID, userID),
		Bucket: discordgo.EndpointGuildMembers(guildID),
		Body: map[string]string{
			"communication_disabled_until": until.UTC().Format(time.RFC3339),
		},
		Reason: reason,
	}
}

// GetChannel fetches a channel.
func GetChannel(channelID string) Action {
	return Action{
		Name:   "get-channel",
		Method: http.MethodGet,
		URL:    discordgo.EndpointChannel(channelID),
	}
}

// CreateChannel creates a guild channel.
func CreateChannel(guildID string, data discordgo.GuildChannelCreateData) Action {
	return Action{
		Name:   "create-channel",
		Method: http.MethodPost,
		URL:    discordgo.EndpointGuildChannels(guildID),
		Body:   data,
	}
}

// DeleteChannel deletes a channel.
func DeleteChannel(channelID string) Action {
	return Action{
		Name:   "delete-channel",
		Method: http.MethodDelete,
		URL:    discordgo.EndpointChannel(channelID),
	}
}

// PostMessage sends a plain text message to a channel.
func PostMessage(channelID, content string) Action {
	return Action{
		Name:   "post-message",
		Method: http.MethodPost,
		URL:    discordgo.EndpointChannelMessages(channelID),
		Body:   &discordgo.MessageSend{Content: content},
	}
}

// SetMemberOverwrite puts a member permission overwrite on a channel.
func SetMemberOverwrite(channelID, userID string, allow, deny int64) Action {
	return Action{
		Name:   "set-overwrite",
		Method: http.MethodPut,
		URL:    discordgo.EndpointChannelPermission(channelID, userID),
		Bucket: discordgo.EndpointChannelPermissions(channelID),
		Body: &discordgo.PermissionOverwrite{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: allow,
			Deny:  deny,
		},
	}
}

// DeleteOverwrite removes a permission overwrite from a channel.
func DeleteOverwrite(channelID, targetID string) Action {
	return Action{
		Name:   "delete-overwrite",
		Method: http.MethodDelete,
		URL:    discordgo.EndpointChannelPermission(channelID, targetID),
		Bucket: discordgo.EndpointChannelPermissions(channelID),
	}
}

package ticket

import (
	"fmt"
	"strings"
	"time"

	"server-warden/internal/errs"
	"server-warden/internal/respond"
	"server-warden/pkg/util"
)

const separator = "─────────────────────────────"

func welcomeMessage(number string, r Request, creatorID string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎫 **Ticket #%s Created**\n\n", number)
	fmt.Fprintf(&b, "**Title:** %s\n", r.Title)
	fmt.Fprintf(&b, "**Description:** %s\n", r.Description)
	fmt.Fprintf(&b, "**Priority:** %s %s\n", r.Priority.Glyph(), r.Priority.Label())
	fmt.Fprintf(&b, "**Created by:** <@%s>\n", creatorID)
	fmt.Fprintf(&b, "**Created at:** %s\n\n", util.DiscordTimestamp(now, util.LongDateTime))
	b.WriteString(separator + "\n\n")
	b.WriteString("📋 **Instructions:**\n")
	b.WriteString("• Please describe your issue in detail\n")
	b.WriteString("• Staff will respond as soon as possible\n")
	b.WriteString("• Use `/ticket close` to close this ticket when resolved\n")
	b.WriteString("• Use `/ticket add <user>` to add someone to this ticket\n\n")
	b.WriteString("🏷️ This ticket will be automatically deleted after closure.")
	return b.String()
}

func createdMessage(number, channelID string, r Request) string {
	var b strings.Builder
	b.WriteString("✅ **Ticket Created Successfully!**\n\n")
	fmt.Fprintf(&b, "🎫 **Ticket #%s**\n", number)
	fmt.Fprintf(&b, "📺 **Channel:** <#%s>\n", channelID)
	fmt.Fprintf(&b, "📋 **Title:** %s\n", r.Title)
	fmt.Fprintf(&b, "%s **Priority:** %s\n\n", r.Priority.Glyph(), r.Priority.Label())
	b.WriteString("Please head to the ticket channel to continue the conversation.")
	return b.String()
}

func closingMessage(closerID, reason string, now time.Time, delay time.Duration) string {
	var b strings.Builder
	b.WriteString("🔒 **Ticket Closed**\n\n")
	fmt.Fprintf(&b, "**Closed by:** <@%s>\n", closerID)
	fmt.Fprintf(&b, "**Reason:** %s\n", reason)
	fmt.Fprintf(&b, "**Closed at:** %s\n\n", util.DiscordTimestamp(now, util.LongDateTime))
	fmt.Fprintf(&b, "This channel will be deleted in %d seconds...", int(delay.Round(time.Second)/time.Second))
	return b.String()
}

// platformFailure maps every platform kind to one message.
func platformFailure(msg string) respond.Messages {
	return respond.Messages{
		errs.KindPermissionDenied: msg,
		errs.KindTargetNotFound:   msg,
		errs.KindMalformedRequest: msg,
		errs.KindConflict:         msg,
		errs.KindTransient:        msg,
		errs.KindUnknown:          msg,
	}
}

var (
	closeFailures  = platformFailure("Failed to close ticket. Please try again later.")
	addFailures    = platformFailure("Failed to add user to ticket.")
	removeFailures = platformFailure("Failed to remove user from ticket.")
)

var createFailures = func() respond.Messages {
	m := platformFailure("Failed to create ticket. Please try again later.")
	m[errs.KindPermissionDenied] = "I don't have permission to create channels. Please make sure I have the **Manage Channels** permission."
	return m
}()

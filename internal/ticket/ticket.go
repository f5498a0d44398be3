// Package ticket runs the support ticket lifecycle. A ticket is nothing but a
// private text channel named ticket-<n>; there is no other record of it, so
// every operation re-derives what it needs from the live channel.
package ticket

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"server-warden/internal/errs"
	"server-warden/internal/interaction"
)

const (
	ChannelPrefix      = "ticket-"
	DefaultDescription = "No description provided"
	DefaultCloseReason = "No reason provided"

	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxCloseReasonLength = 500
)

// Option and subcommand names shared with the slash definition.
const (
	SubCreate = "create"
	SubClose  = "close"
	SubAdd    = "add"
	SubRemove = "remove"

	OptTitle       = "title"
	OptDescription = "description"
	OptPriority    = "priority"
	OptReason      = "reason"
	OptUser        = "user"
)

// Priority is the urgency a creator picks.
type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
	Urgent Priority = "urgent"
)

// Priorities lists every priority, lowest first.
var Priorities = []Priority{Low, Medium, High, Urgent}

// ParsePriority accepts the option value; empty means Medium.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return Medium, nil
	}
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Priorities {
		if p == known {
			return p, nil
		}
	}
	return "", errs.Newf(errs.KindParse, "Unknown priority %q. Use low, medium, high or urgent.", s)
}

// Glyph is the colored marker shown next to the priority.
func (p Priority) Glyph() string {
	switch p {
	case Low:
		return "🟢"
	case Medium:
		return "🟡"
	case High:
		return "🟠"
	case Urgent:
		return "🔴"
	}
	return "⚪"
}

// Label is the capitalized priority name.
func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// Request is a validated /ticket create.
type Request struct {
	Title       string
	Description string
	Priority    Priority
}

// ParseRequest validates create options.
func ParseRequest(opts interaction.Options) (Request, error) {
	r := Request{
		Title:       strings.TrimSpace(opts.String(OptTitle)),
		Description: strings.TrimSpace(opts.String(OptDescription)),
	}
	if r.Title == "" {
		return Request{}, errs.New(errs.KindParse, "Title is required.")
	}
	if utf8.RuneCountInString(r.Title) > MaxTitleLength {
		return Request{}, errs.Newf(errs.KindParse, "Title must be at most %d characters.", MaxTitleLength)
	}
	if r.Description == "" {
		r.Description = DefaultDescription
	}
	if utf8.RuneCountInString(r.Description) > MaxDescriptionLength {
		return Request{}, errs.Newf(errs.KindParse, "Description must be at most %d characters.", MaxDescriptionLength)
	}
	p, err := ParsePriority(opts.String(OptPriority))
	if err != nil {
		return Request{}, err
	}
	r.Priority = p
	return r, nil
}

// ParseCloseReason validates the optional close reason.
func ParseCloseReason(opts interaction.Options) (string, error) {
	reason := strings.TrimSpace(opts.String(OptReason))
	if reason == "" {
		return DefaultCloseReason, nil
	}
	if utf8.RuneCountInString(reason) > MaxCloseReasonLength {
		return "", errs.Newf(errs.KindParse, "Reason must be at most %d characters.", MaxCloseReasonLength)
	}
	return reason, nil
}

// Number derives the six-digit ticket number from the creation time.
func Number(created time.Time) string {
	return fmt.Sprintf("%06d", created.UnixMilli()%1_000_000)
}

// ChannelName is the name of the channel backing ticket number.
func ChannelName(number string) string {
	return ChannelPrefix + number
}

// Topic is the channel topic; it also records who may close the ticket.
func Topic(number, title, creator string) string {
	return fmt.Sprintf("Ticket #%s - %s | Created by %s", number, title, creator)
}

// IsTicket reports whether a channel name marks a ticket.
func IsTicket(channelName string) bool {
	return strings.HasPrefix(channelName, ChannelPrefix)
}

// CreatedBy reports whether the topic names username as the creator. The
// check is a substring match, as loose as the topic format allows.
func CreatedBy(topic, username string) bool {
	return username != "" && strings.Contains(topic, username)
}

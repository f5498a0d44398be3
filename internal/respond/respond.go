// Package respond builds the single reply an interaction gets: its text,
// visibility and optional attachments.
package respond

import (
	"strings"
	"unicode/utf8"
)

// MaxContentLength is Discord's message content limit, in characters.
const MaxContentLength = 2000

const (
	truncatedMarker = "\n… (truncated)"
	attachedNotice  = "📎 Output was too long and has been attached as a file."
)

// File is an attachment sent with a response.
type File struct {
	Name        string
	ContentType string
	Description string
	Data        []byte
}

// Response is what a command hands back to the transport.
type Response struct {
	Content   string
	Ephemeral bool
	Files     []File
}

// Public returns a response visible to the whole channel.
func Public(content string) *Response {
	return &Response{Content: clamp(content)}
}

// Ephemeral returns a response only the caller sees.
func Ephemeral(content string) *Response {
	return &Response{Content: clamp(content), Ephemeral: true}
}

// Truncate cuts content to the message limit, ending on a line boundary when
// one is close enough, and appends a marker.
func Truncate(content string) string {
	if utf8.RuneCountInString(content) <= MaxContentLength {
		return content
	}
	budget := MaxContentLength - utf8.RuneCountInString(truncatedMarker)
	cut := prefix(content, budget)
	if i := strings.LastIndexByte(cut, '\n'); i > len(cut)/2 {
		cut = cut[:i]
	}
	return cut + truncatedMarker
}

// WithAttachment returns content as-is when it fits; otherwise the full text
// goes into a .txt attachment named after filename and the message carries a
// short notice.
func WithAttachment(content, filename string, ephemeral bool) *Response {
	if utf8.RuneCountInString(content) <= MaxContentLength {
		return &Response{Content: content, Ephemeral: ephemeral}
	}
	if !strings.HasSuffix(filename, ".txt") {
		filename += ".txt"
	}
	return &Response{
		Content:   attachedNotice,
		Ephemeral: ephemeral,
		Files: []File{{
			Name:        filename,
			ContentType: "text/plain; charset=utf-8",
			Description: "Full output",
			Data:        []byte(content),
		}},
	}
}

func clamp(content string) string {
	if utf8.RuneCountInString(content) <= MaxContentLength {
		return content
	}
	return prefix(content, MaxContentLength)
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

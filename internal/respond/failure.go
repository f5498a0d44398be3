package respond

import (
	"server-warden/internal/errs"
)

// FailurePrefix starts every failure message.
const FailurePrefix = "❌ "

// Messages overrides the text shown for an error kind at one call site.
type Messages map[errs.Kind]string

var defaultMessages = Messages{
	errs.KindTargetNotFound:   "User not found in this server.",
	errs.KindConflict:         "The request conflicts with the current state.",
	errs.KindPermissionDenied: "I don't have permission to do that. Check my role and its position in the role list.",
	errs.KindTransient:        "Something went wrong talking to Discord. Please try again later.",
	errs.KindUnknown:          "An error occurred.",
}

// Failure renders err as an ephemeral reply. Gate and parse errors already
// carry a user-facing message; platform errors use overrides first, then the
// defaults above.
func Failure(err error, overrides Messages) *Response {
	return Ephemeral(FailurePrefix + FailureText(err, overrides))
}

// FailureText is Failure without the prefix and visibility.
func FailureText(err error, overrides Messages) string {
	kind := errs.KindOf(err)
	if msg, ok := overrides[kind]; ok {
		return msg
	}

	switch kind {
	case errs.KindConfiguration, errs.KindAuthorization, errs.KindInvalidTarget,
		errs.KindNotFound, errs.KindInvalidContext, errs.KindParse:
		return errs.Message(err)
	case errs.KindMalformedRequest:
		detail := errs.Detail(err)
		if detail == "" {
			detail = "Unknown error"
		}
		return "Invalid request: " + detail
	}
	return defaultMessages[kind]
}

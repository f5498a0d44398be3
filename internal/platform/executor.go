// Package platform issues REST calls against the Discord API and classifies
// their outcome. Calls are made once: rate limits and server errors are
// reported, never retried.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"server-warden/internal/errs"

	"github.com/bwmarrin/discordgo"
	cr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Error is a non-2xx reply from the API.
type Error struct {
	Status  int
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("discord api: HTTP %d", e.Status)
	}
	return fmt.Sprintf("discord api: HTTP %d: %s", e.Status, e.Message)
}

// Config holds what the executor needs to authenticate.
type Config struct {
	Token string
	// HTTPClient overrides the client used for REST calls.
	HTTPClient *http.Client
	// Timeout bounds a single call; zero keeps discordgo's default.
	Timeout time.Duration
}

// Executor performs Actions with the bot credential.
type Executor struct {
	session *discordgo.Session
	token   string
	log     *zap.Logger
}

// NewExecutor builds an Executor with its own REST session. A missing token
// is not an error here; every Execute reports it before any network call.
func NewExecutor(cfg Config, log *zap.Logger) (*Executor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, cr.Wrap(err, "create discord session")
	}
	s.MaxRestRetries = 0
	s.ShouldRetryOnRateLimit = false
	if cfg.HTTPClient != nil {
		s.Client = cfg.HTTPClient
	}
	if cfg.Timeout > 0 && s.Client != nil {
		s.Client.Timeout = cfg.Timeout
	}
	return &Executor{session: s, token: cfg.Token, log: log}, nil
}

// Execute runs a and returns the response body on success.
func (e *Executor) Execute(ctx context.Context, a Action) ([]byte, error) {
	if e.token == "" {
		return nil, errs.New(errs.KindConfiguration, "Bot token not configured.")
	}

	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if a.Reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(a.Reason))
	}
	bucket := a.Bucket
	if bucket == "" {
		bucket = a.URL
	}

	start := time.Now()
	body, err := e.session.RequestWithBucketID(a.Method, a.URL, a.Body, bucket, opts...)
	if err != nil {
		classified := Classify(err, a.AllowConflict)
		e.log.Warn("discord call failed",
			zap.String("action", a.Name),
			zap.String("method", a.Method),
			zap.String("url", a.URL),
			zap.Stringer("kind", errs.KindOf(classified)),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return nil, classified
	}

	e.log.Debug("discord call",
		zap.String("action", a.Name),
		zap.String("method", a.Method),
		zap.String("url", a.URL),
		zap.Duration("took", time.Since(start)),
	)
	return body, nil
}

// Classify maps a discordgo request error onto the error kinds.
func Classify(err error, allowConflict bool) error {
	if err == nil {
		return nil
	}

	var rest *discordgo.RESTError
	if !cr.As(err, &rest) || rest.Response == nil {
		return errs.Mark(cr.Wrap(err, "discord request"), errs.KindTransient)
	}

	perr := &Error{Status: rest.Response.StatusCode}
	if rest.Message != nil {
		perr.Code = rest.Message.Code
		perr.Message = rest.Message.Message
	}

	switch {
	case perr.Status == http.StatusForbidden:
		return errs.Mark(perr, errs.KindPermissionDenied)
	case perr.Status == http.StatusNotFound:
		return errs.Mark(perr, errs.KindTargetNotFound)
	case perr.Status == http.StatusBadRequest:
		return errs.WithDetail(errs.Mark(perr, errs.KindMalformedRequest), perr.Message)
	case perr.Status == http.StatusConflict && allowConflict:
		return errs.Mark(perr, errs.KindConflict)
	default:
		return errs.Mark(perr, errs.KindTransient)
	}
}

// Decode unmarshals a response body into v.
func Decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return errs.Mark(cr.Wrap(err, "decode discord response"), errs.KindTransient)
	}
	return nil
}

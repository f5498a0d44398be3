package moderation

import (
	"context"
	"fmt"
	"time"

	"server-warden/internal/errs"
	"server-warden/internal/gate"
	"server-warden/internal/interaction"
	"server-warden/internal/platform"
	"server-warden/internal/respond"

	"go.uber.org/zap"
)

// Executor performs a single platform call.
type Executor interface {
	Execute(ctx context.Context, a platform.Action) ([]byte, error)
}

// Service runs moderation actions.
type Service struct {
	exec Executor
	gate *gate.Gate
	log  *zap.Logger
	now  func() time.Time
}

// NewService returns a Service. A nil logger is replaced with a no-op one.
func NewService(exec Executor, g *gate.Gate, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if g == nil {
		g = gate.New("")
	}
	return &Service{exec: exec, gate: g, log: log, now: time.Now}
}

// Run carries out kind for in. The response is always set; err is returned
// alongside a failure response so callers can log it.
func (s *Service) Run(ctx context.Context, in *interaction.Interaction, kind Kind) (*respond.Response, error) {
	target, err := s.gate.Admit(in, kind.Requirement(), in.Options.UserID(OptUser))
	if err != nil {
		return respond.Failure(err, nil), err
	}

	act, err := Parse(kind, in.Options)
	if err != nil {
		return respond.Failure(err, nil), err
	}

	now := s.now()
	if _, err := s.exec.Execute(ctx, act.Platform(in.GuildID, now)); err != nil {
		return respond.Failure(err, FailureMessages(kind)), err
	}

	s.log.Info("moderation action applied",
		zap.String("action", kind.Verb()),
		zap.String("guild_id", in.GuildID),
		zap.String("moderator_id", in.Member.ID),
		zap.String("target_id", target.ID),
		zap.String("reason", act.Reason),
	)
	return respond.Public(act.Summary(in.Member.User, target, now)), nil
}

// FailureMessages are the per-action texts for platform failures.
func FailureMessages(kind Kind) respond.Messages {
	verb := kind.Verb()
	m := respond.Messages{
		errs.KindPermissionDenied: fmt.Sprintf(
			"I don't have permission to %s this user. Make sure I have the **%s** permission and my role is higher than the target user's highest role.",
			verb, kind.Capability().Name()),
		errs.KindTransient: fmt.Sprintf("Failed to %s the user. Please try again later.", verb),
	}
	if kind == Ban {
		m[errs.KindConflict] = "User is already banned from this server."
	}
	return m
}

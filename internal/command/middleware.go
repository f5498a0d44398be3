package command

import (
	"context"
	"fmt"
	"time"

	"server-warden/internal/errs"
	"server-warden/internal/gate"
	"server-warden/internal/respond"

	cr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// WithRecover turns a panic, or an error that came back without a response,
// into the generic failure reply for the command.
func WithRecover(log *zap.Logger) Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c Command) Command {
		return Wrap(c, func(ctx context.Context, inv *Invocation) (resp *respond.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = cr.Newf("panic in /%s: %v", c.Name(), r)
					log.Error("command panicked", zap.String("command", c.Name()), zap.Any("panic", r), zap.Stack("stack"))
					resp = catchAll(c.Name())
				}
			}()

			resp, err = c.Run(ctx, inv)
			if err != nil && resp == nil {
				resp = catchAll(c.Name())
			}
			return resp, err
		})
	}
}

func catchAll(name string) *respond.Response {
	return respond.Ephemeral(fmt.Sprintf("%sAn error occurred while processing the %s command.", respond.FailurePrefix, name))
}

// WithGuildOnly rejects direct-message invocations before the command runs.
func WithGuildOnly() Middleware {
	g := gate.New("")
	req := gate.Requirement{GuildOnly: true}
	return func(c Command) Command {
		return Wrap(c, func(ctx context.Context, inv *Invocation) (*respond.Response, error) {
			if _, err := g.Admit(inv.Interaction, req, ""); err != nil {
				return respond.Failure(err, nil), err
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithCommandLogger logs every execution with its outcome.
func WithCommandLogger(log *zap.Logger) Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c Command) Command {
		return Wrap(c, func(ctx context.Context, inv *Invocation) (*respond.Response, error) {
			start := time.Now()
			resp, err := c.Run(ctx, inv)

			in := inv.Interaction
			fields := []zap.Field{
				zap.String("command", c.Name()),
				zap.String("interaction_id", in.ID),
				zap.String("guild_id", in.GuildID),
				zap.String("channel_id", in.ChannelID),
				zap.String("user_id", in.Member.ID),
				zap.String("username", in.Member.Username),
				zap.Duration("elapsed", time.Since(start)),
			}
			switch kind := errs.KindOf(err); {
			case err == nil:
				log.Info("command executed", fields...)
			case kind == errs.KindUnknown || kind == errs.KindTransient:
				log.Error("command failed", append(fields, zap.Stringer("kind", kind), zap.Error(err))...)
			case kind == errs.KindConfiguration:
				log.Warn("command failed", append(fields, zap.Stringer("kind", kind), zap.Error(err))...)
			default:
				log.Info("command rejected", append(fields, zap.Stringer("kind", kind), zap.Error(err))...)
			}
			return resp, err
		})
	}
}

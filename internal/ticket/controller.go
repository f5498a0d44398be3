package ticket

import (
	"context"
	"time"

	"server-warden/internal/errs"
	"server-warden/internal/gate"
	"server-warden/internal/interaction"
	"server-warden/internal/perm"
	"server-warden/internal/platform"
	"server-warden/internal/respond"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DefaultDeleteDelay is how long a closed ticket stays readable.
const DefaultDeleteDelay = 10 * time.Second

const (
	memberAllow = int64(perm.ViewChannel | perm.SendMessages | perm.ReadMessageHistory)
	botAllow    = memberAllow | int64(perm.ManageChannels)
)

var guildOnly = gate.Requirement{GuildOnly: true}

// Executor performs a single platform call.
type Executor interface {
	Execute(ctx context.Context, a platform.Action) ([]byte, error)
}

// Scheduler runs fn once after delay, detached from the caller.
type Scheduler interface {
	Schedule(name string, delay time.Duration, fn func(ctx context.Context) error) error
}

// Config tunes the controller.
type Config struct {
	// ApplicationID is the bot user id granted access to new tickets; when
	// empty the interaction's application id is used.
	ApplicationID string
	DeleteDelay   time.Duration
}

// Controller sequences ticket operations.
type Controller struct {
	exec  Executor
	sched Scheduler
	gate  *gate.Gate
	cfg   Config
	log   *zap.Logger
	now   func() time.Time
}

// NewController returns a Controller.
func NewController(exec Executor, sched Scheduler, cfg Config, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.DeleteDelay <= 0 {
		cfg.DeleteDelay = DefaultDeleteDelay
	}
	return &Controller{
		exec:  exec,
		sched: sched,
		gate:  gate.New(cfg.ApplicationID),
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// Handle dispatches a /ticket invocation on its subcommand. Failures come
// back as an ephemeral response together with the error.
func (c *Controller) Handle(ctx context.Context, in *interaction.Interaction) (*respond.Response, error) {
	if _, err := c.gate.Admit(in, guildOnly, ""); err != nil {
		return respond.Failure(err, nil), err
	}
	sub, ok := in.Subcommand()
	if !ok {
		err := errs.New(errs.KindParse, "No subcommand specified.")
		return respond.Failure(err, nil), err
	}

	switch sub.Name {
	case SubCreate:
		return c.Create(ctx, in, sub.Options)
	case SubClose:
		return c.Close(ctx, in, sub.Options)
	case SubAdd:
		return c.Add(ctx, in, sub.Options)
	case SubRemove:
		return c.Remove(ctx, in, sub.Options)
	}
	err := errs.Newf(errs.KindParse, "Unknown subcommand %q.", sub.Name)
	return respond.Failure(err, nil), err
}

// Create opens a private ticket channel for the caller and posts the welcome
// message into it.
func (c *Controller) Create(ctx context.Context, in *interaction.Interaction, opts interaction.Options) (*respond.Response, error) {
	if _, err := c.gate.Admit(in, guildOnly, ""); err != nil {
		return respond.Failure(err, nil), err
	}
	req, err := ParseRequest(opts)
	if err != nil {
		return respond.Failure(err, nil), err
	}

	now := c.now()
	number := Number(now)
	creator := in.Member.User

	body, err := c.exec.Execute(ctx, platform.CreateChannel(in.GuildID, discordgo.GuildChannelCreateData{
		Name:  ChannelName(number),
		Type:  discordgo.ChannelTypeGuildText,
		Topic: Topic(number, req.Title, creator.Username),
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: in.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: int64(perm.ViewChannel)},
			{ID: creator.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAllow},
			{ID: c.botID(in), Type: discordgo.PermissionOverwriteTypeMember, Allow: botAllow},
		},
	}))
	if err != nil {
		return respond.Failure(err, createFailures), err
	}

	var ch discordgo.Channel
	if err := platform.Decode(body, &ch); err != nil {
		return respond.Failure(err, createFailures), err
	}

	log := c.log.With(
		zap.String("guild_id", in.GuildID),
		zap.String("channel_id", ch.ID),
		zap.String("ticket", number),
	)

	// No rollback: the channel stays even when the welcome post fails.
	if _, err := c.exec.Execute(ctx, platform.PostMessage(ch.ID, welcomeMessage(number, req, creator.ID, now))); err != nil {
		log.Warn("ticket welcome message failed", zap.Stringer("kind", errs.KindOf(err)), zap.Error(err))
	}

	log.Info("ticket created", zap.String("creator_id", creator.ID), zap.String("priority", string(req.Priority)))
	return respond.Ephemeral(createdMessage(number, ch.ID, req)), nil
}

// Close posts a closing notice and schedules the channel for deletion.
func (c *Controller) Close(ctx context.Context, in *interaction.Interaction, opts interaction.Options) (*respond.Response, error) {
	ch, err := c.currentTicket(ctx, in)
	if err != nil {
		return respond.Failure(err, closeFailures), err
	}

	mask, err := perm.Parse(in.Member.Permissions)
	if err != nil {
		return respond.Failure(err, nil), err
	}
	if !CreatedBy(ch.Topic, in.Member.Username) && !mask.Allows(perm.ManageChannels) {
		err := errs.New(errs.KindAuthorization,
			"You can only close tickets you created, or if you have the **Manage Channels** permission.")
		return respond.Failure(err, nil), err
	}

	reason, err := ParseCloseReason(opts)
	if err != nil {
		return respond.Failure(err, nil), err
	}

	now := c.now()
	if _, err := c.exec.Execute(ctx, platform.PostMessage(ch.ID, closingMessage(in.Member.ID, reason, now, c.cfg.DeleteDelay))); err != nil {
		return respond.Failure(err, closeFailures), err
	}

	c.scheduleDelete(ch.ID)

	c.log.Info("ticket closed",
		zap.String("guild_id", in.GuildID),
		zap.String("channel_id", ch.ID),
		zap.String("closed_by", in.Member.ID),
		zap.String("reason", reason),
	)
	return respond.Ephemeral("✅ Ticket is being closed..."), nil
}

// Add lets a user see and write in the current ticket.
func (c *Controller) Add(ctx context.Context, in *interaction.Interaction, opts interaction.Options) (*respond.Response, error) {
	ch, target, err := c.participant(ctx, in, opts)
	if err != nil {
		return respond.Failure(err, addFailures), err
	}
	if _, err := c.exec.Execute(ctx, platform.SetMemberOverwrite(ch.ID, target.ID, memberAllow, 0)); err != nil {
		return respond.Failure(err, addFailures), err
	}
	c.log.Info("ticket participant added", zap.String("channel_id", ch.ID), zap.String("user_id", target.ID))
	return respond.Public("✅ Added " + target.Mention() + " to the ticket."), nil
}

// Remove drops a user's overwrite from the current ticket.
func (c *Controller) Remove(ctx context.Context, in *interaction.Interaction, opts interaction.Options) (*respond.Response, error) {
	ch, target, err := c.participant(ctx, in, opts)
	if err != nil {
		return respond.Failure(err, removeFailures), err
	}
	if _, err := c.exec.Execute(ctx, platform.DeleteOverwrite(ch.ID, target.ID)); err != nil {
		return respond.Failure(err, removeFailures), err
	}
	c.log.Info("ticket participant removed", zap.String("channel_id", ch.ID), zap.String("user_id", target.ID))
	return respond.Public("✅ Removed " + target.Mention() + " from the ticket."), nil
}

// currentTicket fetches the invoking channel and rejects anything that is
// not a ticket.
func (c *Controller) currentTicket(ctx context.Context, in *interaction.Interaction) (*discordgo.Channel, error) {
	if _, err := c.gate.Admit(in, guildOnly, ""); err != nil {
		return nil, err
	}
	body, err := c.exec.Execute(ctx, platform.GetChannel(in.ChannelID))
	if err != nil {
		return nil, err
	}
	var ch discordgo.Channel
	if err := platform.Decode(body, &ch); err != nil {
		return nil, err
	}
	if ch.ID == "" {
		ch.ID = in.ChannelID
	}
	if !IsTicket(ch.Name) {
		return nil, errs.New(errs.KindInvalidContext, "This command can only be used in ticket channels.")
	}
	return &ch, nil
}

func (c *Controller) participant(ctx context.Context, in *interaction.Interaction, opts interaction.Options) (*discordgo.Channel, interaction.User, error) {
	ch, err := c.currentTicket(ctx, in)
	if err != nil {
		return nil, interaction.User{}, err
	}
	target, ok := in.ResolveUser(opts.UserID(OptUser))
	if !ok {
		return nil, interaction.User{}, errs.New(errs.KindNotFound, "Could not find the specified user.")
	}
	return ch, target, nil
}

func (c *Controller) scheduleDelete(channelID string) {
	log := c.log.With(zap.String("channel_id", channelID))
	err := c.sched.Schedule("delete-channel:"+channelID, c.cfg.DeleteDelay, func(ctx context.Context) error {
		if _, err := c.exec.Execute(ctx, platform.DeleteChannel(channelID)); err != nil {
			log.Error("ticket channel delete failed", zap.Stringer("kind", errs.KindOf(err)), zap.Error(err))
			return err
		}
		log.Info("ticket channel deleted")
		return nil
	})
	if err != nil {
		log.Warn("ticket channel delete not scheduled", zap.Error(err))
	}
}

func (c *Controller) botID(in *interaction.Interaction) string {
	if c.cfg.ApplicationID != "" {
		return c.cfg.ApplicationID
	}
	return in.ApplicationID
}

// Package gate admits or rejects a command invocation before any platform
// call is made.
//
// Checks run in a fixed order and the first failure wins:
//
//  1. guild context (ConfigurationError)
//  2. caller capability, with administrator overriding everything (AuthorizationError)
//  3. self target (InvalidTargetError)
//  4. bot target (InvalidTargetError)
//  5. target resolution (NotFoundError)
package gate

import (
	"server-warden/internal/errs"
	"server-warden/internal/interaction"
	"server-warden/internal/perm"
)

// Requirement describes what an action needs from its invocation.
type Requirement struct {
	// GuildOnly rejects direct-message invocations.
	GuildOnly bool
	// Capability is the flag the caller must hold; zero means none.
	Capability perm.Flag
	// Verb names the action in messages ("ban", "kick", "timeout").
	Verb string
	// Target enables the self/bot/resolution checks.
	Target bool
}

// Gate evaluates requirements. ApplicationID is the bot's own identity; when
// empty the interaction's application id is used.
type Gate struct {
	ApplicationID string
}

// New returns a Gate for the given bot identity.
func New(applicationID string) *Gate {
	return &Gate{ApplicationID: applicationID}
}

// Admit returns nil when the invocation may proceed. On success with a target
// the resolved target is returned.
func (g *Gate) Admit(in *interaction.Interaction, req Requirement, targetID string) (interaction.User, error) {
	if req.GuildOnly && !in.InGuild() {
		return interaction.User{}, errs.New(errs.KindConfiguration, "This command can only be used in a server (guild).")
	}

	if req.Capability != 0 {
		mask, err := perm.Parse(in.Member.Permissions)
		if err != nil {
			return interaction.User{}, err
		}
		if !mask.Allows(req.Capability) {
			return interaction.User{}, errs.Newf(errs.KindAuthorization,
				"You don't have permission to %s members. You need the **%s** permission.",
				req.Verb, req.Capability.Name())
		}
	}

	if !req.Target {
		return interaction.User{}, nil
	}

	if targetID != "" && targetID == in.Member.ID {
		return interaction.User{}, errs.Newf(errs.KindInvalidTarget, "You cannot %s yourself.", req.Verb)
	}
	if targetID != "" && targetID == g.botID(in) {
		return interaction.User{}, errs.Newf(errs.KindInvalidTarget, "You cannot %s the bot.", req.Verb)
	}

	target, ok := in.ResolveUser(targetID)
	if !ok {
		return interaction.User{}, errs.New(errs.KindNotFound, "Could not find the specified user.")
	}
	return target, nil
}

func (g *Gate) botID(in *interaction.Interaction) string {
	if g != nil && g.ApplicationID != "" {
		return g.ApplicationID
	}
	return in.ApplicationID
}

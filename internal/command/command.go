// Package command is the dispatch contract between the Discord transport and
// the handlers: a command has a name, a description and
// Run(ctx, invocation) returning the response to deliver. Registration with
// Discord is a separate concern handled through SlashProvider.
package command

import (
	"context"

	"server-warden/internal/interaction"
	"server-warden/internal/respond"

	"github.com/bwmarrin/discordgo"
)

// Invocation carries one normalized interaction into a command.
type Invocation struct {
	Interaction *interaction.Interaction
}

// Command is what every handler implements. A non-nil error is always
// accompanied by the response to show the caller, when the command has one.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) (*respond.Response, error)
}

// SlashProvider is implemented by commands registered as slash commands.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Func adapts a function to Command.
type Func struct {
	CommandName        string
	CommandDescription string
	Definition         *discordgo.ApplicationCommand
	RunFunc            func(ctx context.Context, inv *Invocation) (*respond.Response, error)
}

func (f *Func) Name() string        { return f.CommandName }
func (f *Func) Description() string { return f.CommandDescription }

func (f *Func) Run(ctx context.Context, inv *Invocation) (*respond.Response, error) {
	return f.RunFunc(ctx, inv)
}

// SlashDefinition returns Definition, or nil when the command is not a
// slash command.
func (f *Func) SlashDefinition() *discordgo.ApplicationCommand {
	return f.Definition
}

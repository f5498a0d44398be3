// cmd/discord/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"server-warden/internal/command"
	"server-warden/internal/command/core"
	"server-warden/internal/command/discipline"
	"server-warden/internal/command/support"
	"server-warden/internal/config"
	"server-warden/internal/discord"
	"server-warden/internal/gate"
	"server-warden/internal/logging"
	"server-warden/internal/moderation"
	"server-warden/internal/platform"
	"server-warden/internal/ticket"
	v "server-warden/internal/version"
	"server-warden/pkg/jobmgr"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	envFile      string
	skipRegister bool
	logLevel     string
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("discord", pflag.ContinueOnError)
	flagSet.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	flagSet.BoolVar(&opts.skipRegister, "skip-register", false, "do not sync slash command definitions with Discord")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return opts, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.skipRegister {
		cfg.InitSlashCommands = false
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting bot", zap.String("app", v.AppName), zap.String("version", v.Version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, jobs, err := assemble(cfg, logger, time.Now())
	if err != nil {
		return err
	}

	bot, err := discord.NewBot(discord.Config{
		Token:            cfg.DiscordToken,
		ApplicationID:    cfg.DiscordAppID,
		GuildBlacklist:   cfg.DiscordGuildBlacklist,
		RegisterCommands: cfg.InitSlashCommands,
		RegisterRate:     cfg.CommandRegisterRate,
	}, registry, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("received signal, shutting down", zap.Stringer("signal", s))
		cancel()
		if err := <-errCh; err != nil {
			return err
		}
	case err := <-errCh:
		cancel()
		if err != nil {
			logger.Error("discord bot error", zap.Error(err))
			return err
		}
	}

	if pending := jobs.List(); len(pending) > 0 {
		logger.Warn("exiting with pending jobs", zap.Strings("jobs", pending))
	}
	logger.Info("discord bot exited cleanly")
	return nil
}

// assemble wires the services and registers every command.
func assemble(cfg *config.Config, logger *zap.Logger, started time.Time) (*command.Registry, *jobmgr.Manager, error) {
	jobLog := logger.Named("jobs")
	jobs := jobmgr.NewManager(func(status string) { jobLog.Debug(status) })

	exec, err := platform.NewExecutor(platform.Config{Token: cfg.DiscordToken}, logger.Named("platform"))
	if err != nil {
		return nil, nil, err
	}

	moderator := moderation.NewService(exec, gate.New(cfg.DiscordAppID), logger.Named("moderation"))
	tickets := ticket.NewController(exec, jobs, ticket.Config{
		ApplicationID: cfg.DiscordAppID,
		DeleteDelay:   cfg.TicketDeleteDelay,
	}, logger.Named("ticket"))

	cmds := discipline.Commands(moderator)
	cmds = append(cmds,
		&support.TicketCommand{Handler: tickets},
		&core.PermissionsCommand{},
		&core.DebugCommand{
			Jobs:            jobs,
			Started:         started,
			TokenConfigured: cfg.DiscordToken != "",
			AppIDConfigured: cfg.DiscordAppID != "",
		},
	)

	registry := command.NewRegistry()
	cmdLog := logger.Named("command")
	for _, c := range cmds {
		mws := []command.Middleware{command.WithRecover(cmdLog)}
		if c.Name() == "permissions" {
			mws = append(mws, command.WithGuildOnly())
		}
		mws = append(mws, command.WithCommandLogger(cmdLog))
		if err := registry.Register(c, mws...); err != nil {
			return nil, nil, err
		}
	}
	return registry, jobs, nil
}

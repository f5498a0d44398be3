package discord

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

var routeOnce sync.Once

// routeLibraryLogs sends discordgo's internal logging through log. discordgo
// keeps a single package-level hook, so only the first logger wins.
func routeLibraryLogs(log *zap.Logger) {
	routeOnce.Do(func() {
		lib := log.Named("discordgo").WithOptions(zap.AddCallerSkip(2))
		discordgo.Logger = func(level, _ int, format string, a ...any) {
			msg := fmt.Sprintf(format, a...)
			switch level {
			case discordgo.LogError:
				lib.Error(msg)
			case discordgo.LogWarning:
				lib.Warn(msg)
			case discordgo.LogInformational:
				lib.Info(msg)
			default:
				lib.Debug(msg)
			}
		}
	})
}

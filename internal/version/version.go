// Package version carries build identity.
package version

// AppName is shown in logs and /debug.
const AppName = "Server Warden"

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

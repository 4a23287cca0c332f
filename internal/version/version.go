package version

// Version is the current version of the agora-terminal client.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/agoralabs/agora-terminal/internal/version.Version=1.2.3"
// A value of "main" indicates a development build and skips the venue
// compatibility check.
var Version = "v0.4.0"

// GetVersion returns the current version of the client.
func GetVersion() string {
	return Version
}

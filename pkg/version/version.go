package version

// Version is the release string, overridden at build time with
// -ldflags "-X wavecam/pkg/version.Version=...".
var Version = "v0.3.1"

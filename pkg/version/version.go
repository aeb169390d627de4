package version

// Version is the autocal version. Overridden at build time via
// -ldflags "-X github.com/autocal/autocal/pkg/version.Version=...".
var Version = "dev"

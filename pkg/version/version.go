package version

// Version is replaced at build time:
//
//	go build -ldflags "-X github.com/c9s/autoinvest/pkg/version.Version=v1.0.0" ./cmd/autoinvest
var Version = "v0.1.0-dev"

var VersionGitRef = "dev"

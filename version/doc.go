// Package version reports the build version of logkit binaries.
//
// Values are stamped at link time and fall back to the VCS settings the Go
// toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/logkit/version.Version=1.2.0" ./cmd/logctl
package version

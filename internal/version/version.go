/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package version reports how the binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/orien/stackpilot/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	GoVersion = runtime.Version()
	Platform  = runtime.GOOS + "/" + runtime.GOARCH
)

// buildInfo is replaced in tests
var buildInfo = debug.ReadBuildInfo

// Short returns the version. Binaries built with go install carry the module
// version instead of ldflags, so that is used when Version was not set.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := buildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// Info returns the multi-line version banner
func Info() string {
	return fmt.Sprintf("stackpilot %s\n  Git commit: %s\n  Build date: %s\n  Go version: %s\n  Platform:   %s",
		Short(), GitCommit, BuildDate, GoVersion, Platform)
}

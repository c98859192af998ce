// Package version holds the build version, overridden at link time with
// -ldflags "-X porridge/internal/version.AppVersion=...".
package version

var AppVersion = "0.1.0-dev"

// Package version reports the build version for logs and /health.
package version

// Package bootstrap runs a service's lifecycle: start components in
// registration order, run ready hooks, block until a signal or context
// cancellation, then stop everything in reverse order.
package bootstrap

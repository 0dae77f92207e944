// Package provider routes external logins to identity providers.
//
// A Provider verifies an external credential and returns the local
// principal it belongs to. Providers are registered under an identifier at
// startup and resolved per request:
//
//	reg := provider.NewRegistry()
//	reg.Register("facebook", provider.Chain(
//	    provider.WithLogging(log),
//	    provider.WithMetrics(metrics),
//	    provider.WithTracing(),
//	)(social.New(social.Facebook(), links, users)))
//
//	p, err := reg.Resolve(id) // errors.ProviderNotSupported for unknown ids
//
// The registry knows nothing about how a provider verifies credentials.
package provider

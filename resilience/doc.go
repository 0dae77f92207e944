// Package resilience guards calls to remote identity providers with
// bounded retries and a circuit breaker.
package resilience

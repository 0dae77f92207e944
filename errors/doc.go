// Package errors defines AppError, the error type that crosses package
// boundaries in trustauth. Each AppError carries a stable code, a message
// that is safe to show clients, the HTTP status it maps to and an optional
// wrapped cause for logs.
package errors

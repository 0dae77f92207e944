// Package logger wraps zerolog with the field-map API used across trustauth.
//
//	log := logger.New(&cfg.Logging, "trustd").WithComponent("token")
//	log.Info("token issued", logger.Fields(logger.FieldPrincipal, "alice"))
//
// Bearer tokens, passwords and signing secrets are never passed to a logger.
package logger

// Package config loads service configuration with viper.
//
// Values come from, in increasing precedence: a config.yml found under
// ./cmd/<service>/, ./config/ or the working directory; a .env file loaded
// with godotenv; and process environment variables. Every key a config
// struct declares through mapstructure tags is bound to an environment
// variable named after its dotted path, so jwt.secret is read from
// JWT_SECRET (or TRUSTD_JWT_SECRET with WithEnvPrefix("TRUSTD")).
package config

// Package auth groups the authentication building blocks:
//
//   - auth/token     signs, verifies and refreshes bearer tokens
//   - auth/filter    authenticates each request from its bearer token
//   - auth/authctx   carries the authenticated principal through a context
//   - auth/password  hashes local passwords (bcrypt, argon2id)
//
// The top-level package holds the composite Config loaded from YAML and
// the environment:
//
//	jwt:
//	  secret: "change-me"
//	  expiration: 3600
//	password:
//	  algorithm: bcrypt
//	social:
//	  providers: [facebook]
package auth

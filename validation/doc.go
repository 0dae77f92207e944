// Package validation checks request payloads before they reach the account
// service. Struct tags are evaluated with go-playground/validator and field
// names in errors follow the json tags clients send.
//
//	type RegisterRequest struct {
//	    Username string `json:"username" validate:"required,username"`
//	    Password string `json:"password" validate:"required,min=8"`
//	}
//	err := validation.Validate(req)
//
// A programmatic Validator covers checks that are not expressible as tags.
package validation

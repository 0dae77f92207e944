package errors

// ErrorCode is a machine-readable error code carried in every AppError.
type ErrorCode string

// Authentication errors.
const (
	// ErrCodeUnauthorized means the request carried no usable identity.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden means the identity is known but not allowed.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeTokenExpired means a bearer token is past its expiration.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	// ErrCodeInvalidToken means a bearer token failed decoding or verification.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	// ErrCodeInvalidCredentials means a login presented a wrong username or secret.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeProviderNotSupported means no identity provider is registered under the requested id.
	ErrCodeProviderNotSupported ErrorCode = "PROVIDER_NOT_SUPPORTED"
)

// Resource and input errors.
const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField  ErrorCode = "MISSING_FIELD"
)

// Infrastructure errors.
const (
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
	ErrCodeExternalService    ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeDatabaseError:      true,
	ErrCodeExternalService:    true,
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
}

// IsRetryableCode reports whether callers may retry an operation that failed with code.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

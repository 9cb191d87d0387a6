package errors

// Error codes carried in the "error" field of remote error bodies.
const (
	// Business logic errors
	ErrCodeLoginFailed   = "login_failed"
	ErrCodeAlreadyExists = "already_exists"

	// Server errors
	ErrCodeServiceUnavailable = "service_unavailable"
)

// DefaultMessage is shown when a failed response carries no usable message.
const DefaultMessage = "Something went wrong"

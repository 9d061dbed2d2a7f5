package message

const (
	InvalidUser      = "Invalid username/password."
	InvalidInput     = "Invalid input."
	EnvErrFmt        = "environment variable is not set: %s"
	ResetSent        = "If an account exists for that email, a password reset link was sent to it."
	ResetSuccess     = "Password reset successful."
	ResetInvalid     = "The password reset link is invalid or has expired."
	LoginRequired    = "Please log in to continue."
	Forbidden        = "You do not have permission to access this resource."
	TooManyRequests  = "Too many requests. Please try again later."
	UnexpectedError  = "An unexpected error occurred."
	FmtErrStatusCode = "rec.Code = %d, want: %d"
)

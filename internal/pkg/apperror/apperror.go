// Package apperror carries an HTTP status alongside an error so the
// transport layer can map service failures without string matching.
package apperror

type AppError struct {
	Code    int    // HTTP status to respond with
	Message string // safe to show to the caller
	Err     error  // underlying cause, kept out of responses
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError with no underlying cause. Services declare
// their sentinel errors with this.
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a status and message to an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

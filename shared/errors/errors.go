package errors

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Err        error // optional cause, kept for errors.Is/As
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Unwrap() error {
	return e.Err
}

// WithStatus wraps err so the handler layer answers with code and err's message.
func WithStatus(err error, code int) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: err.Error(), StatusCode: code, Err: err}
}

package error

// GenericError is implemented by every error type in this package so the
// REST layer can map errors to HTTP status codes.
type GenericError interface {
	error
	ErrCode() string
	StatusCode() int
}

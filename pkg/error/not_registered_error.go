package error

import "net/http"

// NotRegisteredError is returned when a phone number cannot be resolved to a
// WhatsApp identity.
type NotRegisteredError string

func (err NotRegisteredError) Error() string {
	return string(err)
}

func (err NotRegisteredError) ErrCode() string {
	return "NOT_REGISTERED_ERROR"
}

func (err NotRegisteredError) StatusCode() int {
	return http.StatusBadRequest
}

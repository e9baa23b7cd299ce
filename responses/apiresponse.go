package responses

import "net/http"

// APIError interface for errors that carry their own HTTP status.
type APIError interface {
	Error() string
	StatusCode() int
}

type BadRequestError struct {
	Msg string
}

func (e BadRequestError) Error() string {
	return e.Msg
}

func (BadRequestError) StatusCode() int {
	return http.StatusBadRequest
}

type NotFoundError struct {
	Msg string
}

func (e NotFoundError) Error() string {
	return e.Msg
}

func (NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

type MethodNotAllowedError struct {
	Msg string
}

func (e MethodNotAllowedError) Error() string {
	return e.Msg
}

func (MethodNotAllowedError) StatusCode() int {
	return http.StatusMethodNotAllowed
}

type ConflictError struct {
	Msg string
}

func (e ConflictError) Error() string {
	return e.Msg
}

func (ConflictError) StatusCode() int {
	return http.StatusConflict
}

type PayloadTooLargeError struct {
	Msg string
}

func (e PayloadTooLargeError) Error() string {
	return e.Msg
}

func (PayloadTooLargeError) StatusCode() int {
	return http.StatusRequestEntityTooLarge
}

type InternalServerError struct {
	Msg string
}

func (e InternalServerError) Error() string {
	return e.Msg
}

func (InternalServerError) StatusCode() int {
	return http.StatusInternalServerError
}

// ServiceUnavailableError is used when the store cannot be reached; clients
// may retry.
type ServiceUnavailableError struct {
	Msg string
}

func (e ServiceUnavailableError) Error() string {
	return e.Msg
}

func (ServiceUnavailableError) StatusCode() int {
	return http.StatusServiceUnavailable
}

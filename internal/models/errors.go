package models

import "errors"

type ErrDetails struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrDetails `json:"error"`
}

const (
	InvalidJSONErr  string = "INVALID_JSON"
	InvalidInputErr string = "INVALID_INPUT"
	NotFoundErr     string = "NOT_FOUND"
	InternalErr     string = "INTERNAL_ERROR"
)

// ErrNotFound is returned by repositories when a row with the requested id
// does not exist.
var ErrNotFound = errors.New("not found")

package main

import "net/http"

// Error codes surfaced to clients. The set is stable: handlers map each code
// to exactly one HTTP status.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeServerError        = "SERVER_ERROR"
)

// AppError is a domain failure carried from the service layer to the HTTP
// boundary. Details is optional structured context (e.g. missing fields).
type AppError struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *AppError) Error() string { return e.Code + ": " + e.Message }

func validationErr(message string, details map[string]any) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Details: details}
}

var (
	errEmailExists = &AppError{Code: CodeEmailExists, Message: "Email already registered"}
	// One error for both unknown email and wrong password: no existence oracle.
	errInvalidCredentials = &AppError{Code: CodeInvalidCredentials, Message: "Invalid email or password"}
	errInvalidRefresh     = &AppError{Code: CodeInvalidToken, Message: "Invalid or expired refresh token"}
	errUserNotFound       = &AppError{Code: CodeNotFound, Message: "User not found"}
)

// statusFor maps an error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeEmailExists:
		return http.StatusConflict
	case CodeInvalidCredentials, CodeInvalidToken, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

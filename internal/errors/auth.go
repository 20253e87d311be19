package errors

import (
	"errors"
	"fmt"
)

// AuthCode is an identity provider error code.
type AuthCode string

const (
	CodeInvalidCredential AuthCode = "auth/invalid-credential"
	CodeTooManyRequests   AuthCode = "auth/too-many-requests"
	CodeEmailInUse        AuthCode = "auth/email-already-in-use"
	CodeWeakPassword      AuthCode = "auth/weak-password"
	CodeWrongPassword     AuthCode = "auth/wrong-password"
	CodeUserNotFound      AuthCode = "auth/user-not-found"
	CodeInvalidEmail      AuthCode = "auth/invalid-email"
	CodeNoCurrentUser     AuthCode = "auth/no-current-user"
	CodeSessionExpired    AuthCode = "auth/session-expired"
)

// AuthError is returned by the identity adapter.
type AuthError struct {
	Code AuthCode
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *AuthError) Unwrap() error { return e.Err }

func NewAuthError(code AuthCode, err error) *AuthError {
	return &AuthError{Code: code, Err: err}
}

// AuthCodeOf extracts the code of an AuthError, or "" when err is not one.
func AuthCodeOf(err error) AuthCode {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

var authMessages = map[AuthCode]string{
	CodeInvalidCredential: "Username or password is incorrect",
	CodeTooManyRequests:   "Too many attempts, please wait and try again",
	CodeEmailInUse:        "This username is already taken",
	CodeWeakPassword:      "Password must be at least 6 characters",
	CodeWrongPassword:     "Wrong password",
	CodeUserNotFound:      "User not found",
	CodeInvalidEmail:      "Invalid username",
	CodeNoCurrentUser:     "You are not logged in",
	CodeSessionExpired:    "Your session has expired, please log in again",
}

// GenericAuthMessage is shown for unmapped codes.
const GenericAuthMessage = "Something went wrong, please try again"

// AuthMessage maps an identity error to a user-facing message.
func AuthMessage(err error) string {
	if msg, ok := authMessages[AuthCodeOf(err)]; ok {
		return msg
	}
	return GenericAuthMessage
}

package errors

import "fmt"

// ErrorCode identifies an application error category independent of transport.
type ErrorCode string

const (
	// Generic transport-level codes
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Scheduling domain codes
	ErrNoParticipantsFound    ErrorCode = "NO_PARTICIPANTS_FOUND"
	ErrCreatorNotFound        ErrorCode = "CREATOR_NOT_FOUND"
	ErrEventNotFound          ErrorCode = "EVENT_NOT_FOUND"
	ErrParticipantNotFound    ErrorCode = "PARTICIPANT_NOT_FOUND"
	ErrParticipantNotInvited  ErrorCode = "PARTICIPANT_NOT_INVITED"
	ErrInvalidInterval        ErrorCode = "INVALID_INTERVAL"
	ErrCalendarUnavailable    ErrorCode = "CALENDAR_UNAVAILABLE"
	ErrConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
)

// AppError carries an error code and message across service boundaries.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two AppErrors by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

package core

// Error codes reference.
//
// Users quote the code shown next to an error message so that support can
// find the matching entry here and the technical error in the logs.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Missing file: The dataset file was not found
//	          Action: An empty table is shown; adding a record creates the file
//	          Matches: ErrMissingFile
//
//	FILE002 - Unreadable file: The dataset file could not be read
//	          Action: Check the file is semicolon separated UTF-8 with a header line
//	          Matches: *ReadError, "invalid csv", "encoding error", "empty file"
//
//	FILE003 - Write failure: Changes could not be saved to the dataset file
//	          Action: Check the file is writable; the change is kept until restart
//	          Matches: *WriteError
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Record shape: The record has the wrong number of fields
//	         Action: Fill in one value for each column
//	         Matches: *ShapeError
//
//	VAL002 - Unknown field: The column does not exist
//	         Action: Choose one of the dataset columns
//	         Matches: *UnknownFieldError
//
// # Index Errors (IDX001-IDX099)
//
//	IDX001 - Row out of range: The selected row no longer exists
//	         Action: Reload the table and select the row again
//	         Matches: *IndexError
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Bad request: The request could not be understood
//	         Action: Check the submitted values
//	         Matches: "bad request", "invalid position"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Matches: "rate limit"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Export busy: Other exports are still being prepared
//	         Action: Wait a few seconds and download again
//	         Matches: ErrExportBusy, "export busy"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again; check the logs for the technical error
//
// Typed errors are matched first with errors.Is/errors.As. Remaining errors
// are matched case-insensitively by substring; the first pattern wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgMissingFile = UserMessage{
		Message: "The dataset file was not found",
		Action:  "An empty table is shown; adding a record creates the file",
		Code:    "FILE001",
	}
	msgUnreadableFile = UserMessage{
		Message: "The dataset file could not be read",
		Action:  "Check the file is semicolon separated UTF-8 with a header line",
		Code:    "FILE002",
	}
	msgWriteFailure = UserMessage{
		Message: "Changes could not be saved to the dataset file",
		Action:  "Check the file is writable; the change is kept until restart",
		Code:    "FILE003",
	}
	msgShape = UserMessage{
		Message: "The record has the wrong number of fields",
		Action:  "Fill in one value for each column",
		Code:    "VAL001",
	}
	msgUnknownField = UserMessage{
		Message: "The column does not exist",
		Action:  "Choose one of the dataset columns",
		Code:    "VAL002",
	}
	msgIndex = UserMessage{
		Message: "The selected row no longer exists",
		Action:  "Reload the table and select the row again",
		Code:    "IDX001",
	}
	msgBadRequest = UserMessage{
		Message: "The request could not be understood",
		Action:  "Check the submitted values",
		Code:    "REQ001",
	}
	msgExportBusy = UserMessage{
		Message: "Other exports are still being prepared",
		Action:  "Wait a few seconds and download again",
		Code:    "EXP001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is consulted for errors that carry no type information,
// such as those crossing the HTTP boundary. Order matters.
var errorPatterns = []errorPattern{
	{pattern: "dataset file not found", msg: msgMissingFile},
	{pattern: "invalid csv", msg: msgUnreadableFile},
	{pattern: "encoding error", msg: msgUnreadableFile},
	{pattern: "empty file", msg: msgUnreadableFile},
	{pattern: "invalid record shape", msg: msgShape},
	{pattern: "unknown field", msg: msgUnknownField},
	{pattern: "out of range", msg: msgIndex},
	{pattern: "bad request", msg: msgBadRequest},
	{pattern: "export busy", msg: msgExportBusy},
	{pattern: "invalid position", msg: msgBadRequest},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again; check the logs for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	err := store.UpdateAt(9, rec)
//	msg := MapError(err)
//	// msg.Code == "IDX001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		readErr  *ReadError
		writeErr *WriteError
		shapeErr *ShapeError
		fieldErr *UnknownFieldError
		indexErr *IndexError
	)
	switch {
	case errors.Is(err, ErrMissingFile):
		return msgMissingFile
	case errors.Is(err, ErrExportBusy):
		return msgExportBusy
	case errors.As(err, &writeErr):
		return msgWriteFailure
	case errors.As(err, &readErr):
		return msgUnreadableFile
	case errors.As(err, &shapeErr):
		return msgShape
	case errors.As(err, &fieldErr):
		return msgUnknownField
	case errors.As(err, &indexErr):
		return msgIndex
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}

// BadRequest marks a malformed request so that it maps to REQ001.
func BadRequest(format string, args ...any) error {
	return fmt.Errorf("bad request: "+format, args...)
}

package core

// error_messages.go maps technical errors to user messages.
//
// Errors shown to API and CLI users carry a code that can be quoted to
// support staff. Codes are grouped by category:
//
// # Parse Errors (PARSE001-PARSE099)
//
//	PARSE001 - Insufficient data: Transcription has fewer than four lines
//	           Action: Retake the photo so the whole card is visible
//	           Patterns: "insufficient data"
//
//	PARSE002 - Invalid layout: Hole-number or par row does not match
//	           Action: Check the card is an 18-hole scorecard
//	           Patterns: "invalid scorecard layout"
//
// # OCR Errors (OCR001-OCR099)
//
//	OCR001 - Recognition failed: The OCR service could not be reached
//	OCR002 - Recognition rejected: The OCR service answered with an error status
//	         or reported an error inside its response stream
//	OCR003 - Empty transcription: No text was recognized on the image
//	OCR004 - Engine unavailable: The configured engine is not built in
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Image too large
//	FILE002 - Unsupported image type
//	FILE004 - No image provided
//	FILE005 - Empty image
//
// # Scan Errors (SCAN001-SCAN099)
//
//	SCAN002 - System busy: Too many scans in progress
//	SCAN003 - Scan not found: The result expired or never existed
//	SCAN004 - Request cancelled ("context canceled")
//	SCAN005 - Request timeout ("context deadline exceeded")
//
// # Database Errors (DB001-DB099)
//
//	DB004 - Connection refused
//	DB005 - Connection reset
//	DB006 - Timeout
//	DB007 - Deadlock
//	DB008 - Database locked (SQLite)
//
// # Rate Limiting (RATE001)
//
// # Default Error (ERR000)
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// Order matters: more specific patterns must come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Parse Errors
	// =========================================================================
	{
		pattern: "insufficient data",
		msg: UserMessage{
			Message: "Not enough scorecard rows were recognized",
			Action:  "Retake the photo so the whole card is visible",
			Code:    "PARSE001",
		},
	},
	{
		pattern: "invalid scorecard layout",
		msg: UserMessage{
			Message: "The scorecard layout was not recognized",
			Action:  "Check the card is an 18-hole scorecard with hole and par rows",
			Code:    "PARSE002",
		},
	},

	// =========================================================================
	// OCR Errors
	// =========================================================================
	{
		pattern: "ocr engine unavailable",
		msg: UserMessage{
			Message: "The configured OCR engine is not available",
			Action:  "Check the OCR_ENGINE setting",
			Code:    "OCR004",
		},
	},
	{
		pattern: "transcription is empty",
		msg: UserMessage{
			Message: "No text was recognized on the image",
			Action:  "Retake the photo with better lighting",
			Code:    "OCR003",
		},
	},
	{
		pattern: "ocr engine reported an error",
		msg: UserMessage{
			Message: "The OCR service rejected the request",
			Action:  "Please try again later",
			Code:    "OCR002",
		},
	},
	{
		pattern: "ocr service returned status",
		msg: UserMessage{
			Message: "The OCR service rejected the request",
			Action:  "Please try again later",
			Code:    "OCR002",
		},
	},
	{
		pattern: "ocr request failed",
		msg: UserMessage{
			Message: "The OCR service could not be reached",
			Action:  "Please try again in a few moments",
			Code:    "OCR001",
		},
	},

	// =========================================================================
	// File Errors
	// =========================================================================
	{
		pattern: "image too large",
		msg: UserMessage{
			Message: "Image exceeds the maximum size limit",
			Action:  "Upload a smaller or compressed photo",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported image type",
		msg: UserMessage{
			Message: "The file is not a supported image",
			Action:  "Upload a JPEG, PNG, GIF or WebP photo",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no image provided",
		msg: UserMessage{
			Message: "No image was selected",
			Action:  "Please select a scorecard photo to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty image",
		msg: UserMessage{
			Message: "The uploaded image is empty",
			Action:  "Please upload a scorecard photo",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Scan Errors
	// =========================================================================
	{
		pattern: "too many concurrent scans",
		msg: UserMessage{
			Message: "System is busy processing other scans",
			Action:  "Please wait a moment and try again",
			Code:    "SCAN002",
		},
	},
	{
		pattern: "scan not found",
		msg: UserMessage{
			Message: "Scan result not found",
			Action:  "The result may have expired. Please scan the card again",
			Code:    "SCAN003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "SCAN004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller image or check your connection",
			Code:    "SCAN005",
		},
	},

	// =========================================================================
	// Database Errors
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "Database is busy",
			Action:  "Please try again",
			Code:    "DB008",
		},
	},

	// =========================================================================
	// Rate Limiting
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing reports whether err matches a known pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
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

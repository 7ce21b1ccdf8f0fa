package errors

import (
	"unicode"
	"unicode/utf8"
)

// MaxTokenLength bounds the size of a share token accepted from a URL.
// A message at the largest accepted length encodes well below this.
const MaxTokenLength = 8192

// MaxMessageLength is the longest message (in characters) accepted when
// composing a new letter.
const MaxMessageLength = 2000

// MaxNameLength is the longest sender or recipient name accepted when
// composing a new letter.
const MaxNameLength = 40

// ValidateToken performs cheap structural checks on a share token before
// any base64 work is attempted.
//
// Validation rules:
//   - Token cannot be empty
//   - Maximum length of [MaxTokenLength] bytes
//   - Only the URL-safe base64 alphabet (A-Z a-z 0-9 - _), with optional
//     trailing '=' padding from clients that did not strip it
func ValidateToken(token string) error {
	if token == "" {
		return New(ErrCodeInvalidToken, "token cannot be empty")
	}
	if len(token) > MaxTokenLength {
		return New(ErrCodeInvalidToken, "token too long (max %d bytes)", MaxTokenLength)
	}

	padded := false
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c == '=':
			padded = true
		case padded:
			return New(ErrCodeInvalidToken, "token has data after padding at offset %d", i)
		case isTokenChar(c):
		default:
			return New(ErrCodeInvalidToken, "token contains invalid character %q at offset %d", c, i)
		}
	}
	return nil
}

func isTokenChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_'
}

// ValidateName validates a sender or recipient display name.
// Empty names are valid and mean "not shown".
func ValidateName(field, name string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains control characters", field)
		}
	}
	return nil
}

// ValidateMessage validates a message body before encoding.
// Newlines and tabs are allowed; other control characters are not.
func ValidateMessage(message string) error {
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return New(ErrCodeInvalidInput, "message too long (max %d characters)", MaxMessageLength)
	}
	for _, r := range message {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "message contains control characters")
		}
	}
	return nil
}

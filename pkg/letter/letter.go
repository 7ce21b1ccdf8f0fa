package letter

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	apperr "github.com/matzehuels/blindcard/pkg/errors"
)

// Anonymous is the sender name that means "no sender shown".
const Anonymous = "익명"

// QueryParam is the URL query parameter carrying a token.
const QueryParam = "d"

// ErrDecode is wrapped by every error returned from [Decode].
var ErrDecode = errors.New("letter: undecodable token")

// fields lists the required JSON keys in token order.
var fields = [...]string{"from", "to", "message", "theme"}

// Record is one blind message. All fields are plain strings; absence is
// represented by "".
type Record struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
	Theme   string `json:"theme"`
}

// HasSender reports whether a sender name should be shown.
// Both "" and [Anonymous] mean no sender.
func (r Record) HasSender() bool {
	return r.From != "" && r.From != Anonymous
}

// HasRecipient reports whether a recipient name should be shown.
func (r Record) HasRecipient() bool {
	return r.To != ""
}

// IsZero reports whether all four fields are empty.
func (r Record) IsZero() bool {
	return r == Record{}
}

// Validate checks field lengths and characters for a letter being composed.
// Decoded letters are not validated; anything that decodes is rendered.
func (r Record) Validate() error {
	if err := apperr.ValidateName("from", r.From); err != nil {
		return err
	}
	if err := apperr.ValidateName("to", r.To); err != nil {
		return err
	}
	if err := apperr.ValidateName("theme", r.Theme); err != nil {
		return err
	}
	return apperr.ValidateMessage(r.Message)
}

// Normalize prepares user input for encoding: invalid UTF-8 sequences are
// replaced with U+FFFD and CRLF/CR line endings become LF. The result
// round-trips through [Encode] and [Decode] unchanged.
func Normalize(r Record) Record {
	clean := func(s string) string {
		s = strings.ToValidUTF8(s, "�")
		s = strings.ReplaceAll(s, "\r\n", "\n")
		return strings.ReplaceAll(s, "\r", "\n")
	}
	return Record{
		From:    clean(r.From),
		To:      clean(r.To),
		Message: clean(r.Message),
		Theme:   clean(r.Theme),
	}
}

// Encode converts r into its URL-safe token.
func Encode(r Record) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// A struct of strings always marshals.
	_ = enc.Encode(r)
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a token produced by [Encode].
//
// It fails when the token is not valid base64 after restoring the standard
// alphabet and padding, when the bytes are not valid UTF-8, when the text is
// not a JSON object, or when any of from, to, message, theme is missing or
// not a string.
func Decode(token string) (Record, error) {
	if err := apperr.ValidateToken(token); err != nil {
		return Record{}, decodeError(err, "malformed token")
	}

	s := strings.TrimRight(token, "=")
	if len(s)%4 == 1 {
		return Record{}, decodeError(nil, "token length %d is not valid base64", len(s))
	}
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)
	s += strings.Repeat("=", (4-len(s)%4)%4)

	data, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return Record{}, decodeError(err, "invalid base64")
	}
	if !utf8.Valid(data) {
		return Record{}, decodeError(nil, "payload is not valid UTF-8")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return Record{}, decodeError(err, "payload is not a JSON object")
	}

	var values [len(fields)]string
	for i, key := range fields {
		raw, ok := obj[key]
		if !ok {
			return Record{}, decodeError(nil, "missing field %q", key)
		}
		if len(raw) == 0 || raw[0] != '"' {
			return Record{}, decodeError(nil, "field %q is not a string", key)
		}
		if err := json.Unmarshal(raw, &values[i]); err != nil {
			return Record{}, decodeError(err, "field %q", key)
		}
	}

	return Record{From: values[0], To: values[1], Message: values[2], Theme: values[3]}, nil
}

// DecodeOrEmpty decodes token and reports whether it succeeded. On failure
// it returns the zero Record so callers can render placeholders.
func DecodeOrEmpty(token string) (Record, bool) {
	r, err := Decode(token)
	if err != nil {
		return Record{}, false
	}
	return r, true
}

// ShareURL appends token to base as the [QueryParam] query parameter.
// Existing query parameters on base are kept.
func ShareURL(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return base + sep + QueryParam + "=" + token
	}
	q := u.Query()
	q.Set(QueryParam, token)
	u.RawQuery = q.Encode()
	return u.String()
}

func decodeError(cause error, format string, args ...any) error {
	if cause == nil {
		cause = ErrDecode
	} else {
		cause = fmt.Errorf("%w: %w", ErrDecode, cause)
	}
	return apperr.Wrap(apperr.ErrCodeInvalidToken, cause, format, args...)
}

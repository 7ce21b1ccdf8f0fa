package letter

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	apperr "github.com/matzehuels/blindcard/pkg/errors"
)

func TestEncodeGolden(t *testing.T) {
	tests := []struct {
		name string
		r    Record
		want string
	}{
		{
			name: "korean names",
			r:    Record{From: "지민", To: "서연", Message: "생일 축하해"},
			want: "eyJmcm9tIjoi7KeA66-8IiwidG8iOiLshJzsl7AiLCJtZXNzYWdlIjoi7IOd7J28IOy2le2VmO2VtCIsInRoZW1lIjoiIn0",
		},
		{
			name: "empty record",
			r:    Record{},
			want: "eyJmcm9tIjoiIiwidG8iOiIiLCJtZXNzYWdlIjoiIiwidGhlbWUiOiIifQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.r); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeURLSafe(t *testing.T) {
	// Enough varied bytes to produce every base64 character class.
	r := Record{From: "???>>>", To: "~~~", Message: strings.Repeat("생일 축하해 🎂\n", 20), Theme: "night"}
	token := Encode(r)
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("Encode() = %q, contains characters that are not URL-safe", token)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	r := Record{From: "익명", To: "", Message: "안녕", Theme: "rose"}
	first := Encode(r)
	for i := 0; i < 10; i++ {
		if got := Encode(r); got != first {
			t.Fatalf("Encode() call %d = %q, want %q", i, got, first)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []Record{
		{},
		{From: "지민", To: "서연", Message: "생일 축하해"},
		{From: Anonymous, To: "", Message: "안녕", Theme: "default"},
		{From: "a", To: "b", Message: "line one\nline two\n\nline four", Theme: "night"},
		{Message: "🎂🎉 emoji and 한글 mixed"},
		{From: `quote "me"`, To: `back\slash`, Message: "<b>html & stuff</b>"},
		{Message: "   leading and trailing spaces   "},
		{Message: strings.Repeat("가나다라 ", 400)},
	}

	for _, r := range tests {
		got, err := Decode(Encode(r))
		if err != nil {
			t.Errorf("Decode(Encode(%+v)) error: %v", r, err)
			continue
		}
		if got != r {
			t.Errorf("Decode(Encode(r)) = %+v, want %+v", got, r)
		}
	}
}

func TestDecodeAcceptsPadding(t *testing.T) {
	r := Record{From: "지민"}
	token := Encode(r)
	padded := token + strings.Repeat("=", (4-len(token)%4)%4)

	got, err := Decode(padded)
	if err != nil {
		t.Fatalf("Decode(padded) error: %v", err)
	}
	if got != r {
		t.Errorf("Decode(padded) = %+v, want %+v", got, r)
	}
}

func rawToken(json string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(json))
}

const goldenToken = "eyJmcm9tIjoi7KeA66-8IiwidG8iOiLshJzsl7AiLCJtZXNzYWdlIjoi7IOd7J28IOy2le2VmO2VtCIsInRoZW1lIjoiIn0"

func TestDecodeFailures(t *testing.T) {
	valid := goldenToken

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"truncated", valid[:len(valid)-3]},
		{"truncated to one char past block", valid[:5]},
		{"first char flipped", "f" + valid[1:]},
		{"garbage appended", valid + "!!!"},
		{"zero block appended", valid + "AAAA"},
		{"standard alphabet", strings.ReplaceAll(valid, "-", "+")},
		{"not base64", "this is not a token"},
		{"bad utf8", base64.RawURLEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd})},
		{"not json", rawToken("hello")},
		{"json array", rawToken(`["from","to","message","theme"]`)},
		{"json string", rawToken(`"from"`)},
		{"missing theme", rawToken(`{"from":"","to":"","message":""}`)},
		{"missing from", rawToken(`{"to":"","message":"","theme":""}`)},
		{"number field", rawToken(`{"from":1,"to":"","message":"","theme":""}`)},
		{"null field", rawToken(`{"from":null,"to":"","message":"","theme":""}`)},
		{"object field", rawToken(`{"from":"","to":{},"message":"","theme":""}`)},
		{"bool field", rawToken(`{"from":"","to":"","message":true,"theme":""}`)},
		{"trailing data", rawToken(`{"from":"","to":"","message":"","theme":""}{}`)},
		{"too long", strings.Repeat("A", apperr.MaxTokenLength+4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.token)
			if err == nil {
				t.Fatalf("Decode(%q) = %+v, want error", tt.token, got)
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Decode() error = %v, want wrapping ErrDecode", err)
			}
			if !apperr.Is(err, apperr.ErrCodeInvalidToken) {
				t.Errorf("Decode() code = %v, want %v", apperr.GetCode(err), apperr.ErrCodeInvalidToken)
			}
			if !got.IsZero() {
				t.Errorf("Decode() returned partial record %+v", got)
			}
		})
	}
}

// Without a checksum some substitutions still form valid JSON and decode to
// another letter. Those must be complete records, never partial ones.
func TestDecodeSingleSubstitution(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for i := 0; i < len(goldenToken); i++ {
		for _, c := range []byte(alphabet) {
			if c == goldenToken[i] {
				continue
			}
			token := goldenToken[:i] + string(c) + goldenToken[i+1:]
			got, err := Decode(token)
			if err != nil {
				if !errors.Is(err, ErrDecode) || !got.IsZero() {
					t.Fatalf("Decode(%q) = %+v, %v; want zero record and ErrDecode", token, got, err)
				}
				continue
			}
			again, err := Decode(Encode(got))
			if err != nil || again != got {
				t.Fatalf("Decode(%q) = %+v does not round-trip: %+v, %v", token, got, again, err)
			}
		}
	}
}

func TestDecodeExtraFieldsIgnored(t *testing.T) {
	got, err := Decode(rawToken(`{"theme":"t","message":"m","to":"b","from":"a","extra":1}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := Record{From: "a", To: "b", Message: "m", Theme: "t"}
	if got != want {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestDecodeOrEmpty(t *testing.T) {
	r, ok := DecodeOrEmpty("%%%")
	if ok || !r.IsZero() {
		t.Errorf("DecodeOrEmpty(invalid) = %+v, %v; want zero, false", r, ok)
	}

	want := Record{From: "지민"}
	r, ok = DecodeOrEmpty(Encode(want))
	if !ok || r != want {
		t.Errorf("DecodeOrEmpty(valid) = %+v, %v; want %+v, true", r, ok, want)
	}
}

func TestSenderRecipient(t *testing.T) {
	tests := []struct {
		r             Record
		wantSender    bool
		wantRecipient bool
	}{
		{Record{From: "지민", To: "서연"}, true, true},
		{Record{From: Anonymous, To: "서연"}, false, true},
		{Record{From: "", To: ""}, false, false},
		{Record{From: "지민"}, true, false},
	}

	for _, tt := range tests {
		if got := tt.r.HasSender(); got != tt.wantSender {
			t.Errorf("%+v.HasSender() = %v, want %v", tt.r, got, tt.wantSender)
		}
		if got := tt.r.HasRecipient(); got != tt.wantRecipient {
			t.Errorf("%+v.HasRecipient() = %v, want %v", tt.r, got, tt.wantRecipient)
		}
	}
}

func TestNormalize(t *testing.T) {
	in := Record{From: "a\xffb", Message: "one\r\ntwo\rthree"}
	got := Normalize(in)

	if got.From != "a�b" {
		t.Errorf("From = %q, want %q", got.From, "a�b")
	}
	if got.Message != "one\ntwo\nthree" {
		t.Errorf("Message = %q, want %q", got.Message, "one\ntwo\nthree")
	}

	back, err := Decode(Encode(got))
	if err != nil || back != got {
		t.Errorf("normalized record did not round-trip: %+v, %v", back, err)
	}
}

func TestValidate(t *testing.T) {
	if err := (Record{From: "지민", Message: "안녕"}).Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	if err := (Record{Message: strings.Repeat("a", apperr.MaxMessageLength+1)}).Validate(); err == nil {
		t.Error("Validate() should reject oversized message")
	}
	if err := (Record{To: strings.Repeat("a", apperr.MaxNameLength+1)}).Validate(); err == nil {
		t.Error("Validate() should reject oversized recipient")
	}
}

func TestShareURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://example.com/blind/view", "https://example.com/blind/view?d=abc-_"},
		{"https://example.com/blind/view?lang=ko", "https://example.com/blind/view?d=abc-_&lang=ko"},
		{"/blind/view", "/blind/view?d=abc-_"},
	}

	for _, tt := range tests {
		if got := ShareURL(tt.base, "abc-_"); got != tt.want {
			t.Errorf("ShareURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

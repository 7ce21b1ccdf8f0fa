// Package letter defines the blind-message record and its URL-safe token.
//
// # Overview
//
// A [Record] is the whole letter: sender, recipient, the secret message and
// a theme id. There is no database behind it. The token produced by [Encode]
// is the only place a letter lives, so the token is also its identity:
//
//	token := letter.Encode(letter.Record{From: "지민", To: "서연", Message: "생일 축하해"})
//	r, err := letter.Decode(token)
//
// # Token Format
//
// The record is serialized as compact JSON with the fixed key order
// from, to, message, theme, then base64-encoded with the URL-safe alphabet
// ('-' and '_' instead of '+' and '/') and no '=' padding. Encoding is a
// pure function of the four fields: no timestamp, nonce or salt, so the
// same letter always yields the same token and therefore the same card.
//
// # Decoding
//
// [Decode] either returns a complete record or an error wrapping
// [ErrDecode]. It never returns a partially filled record. Callers that
// render images substitute an empty record on failure; see
// [DecodeOrEmpty].
package letter

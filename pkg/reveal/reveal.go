// Package reveal selects which characters of a blind message stay visible.
//
// The selection is a pure function of the message text. A message always
// produces the same mask, so a card rendered on the server and one drawn on
// the client show the same visible characters.
//
// # Algorithm
//
// Candidates are the non-whitespace characters in left-to-right order.
// [Count] of them are kept: [Ratio] of the candidates rounded down, but never
// fewer than [MinReveal]. Each candidate index i is ranked by a Knuth
// multiplicative hash of i+seed in unsigned 32-bit arithmetic, where the seed
// is derived from the message length and its first character ([Seed]). The
// lowest-ranked candidates are revealed; ties keep index order. Every other
// candidate becomes [Glyph]. Whitespace, including newlines, passes through.
//
// Indices count characters (Unicode code points), not bytes.
package reveal

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Ratio is the share of non-whitespace characters left visible.
	Ratio = 0.2
	// MinReveal is the least number of characters revealed in a message
	// that has any non-whitespace character.
	MinReveal = 1
	// Glyph replaces every hidden character.
	Glyph = '■'
)

const knuth uint32 = 2654435761

// Seed derives the hash seed from a message: its length in characters
// times 7 plus its first character's code point times 13. The empty
// message has seed 0.
func Seed(message string) uint32 {
	if message == "" {
		return 0
	}
	first, _ := utf8.DecodeRuneInString(message)
	n := uint32(utf8.RuneCountInString(message))
	return n*7 + uint32(first)*13
}

// Hash ranks candidate index i under seed. Overflow wraps modulo 2^32.
func Hash(i int, seed uint32) uint32 {
	return (uint32(i) + seed) * knuth
}

// Count returns how many of n candidate characters are revealed.
func Count(n int) int {
	if n <= 0 {
		return 0
	}
	c := int(math.Floor(Ratio * float64(n)))
	if c < MinReveal {
		c = MinReveal
	}
	if c > n {
		c = n
	}
	return c
}

// Candidates returns the character indices of message that are not whitespace.
func Candidates(message string) []int {
	var out []int
	i := 0
	for _, r := range message {
		if !unicode.IsSpace(r) {
			out = append(out, i)
		}
		i++
	}
	return out
}

// Indices returns the reveal set of message in ascending order.
func Indices(message string) []int {
	cands := Candidates(message)
	if len(cands) == 0 {
		return nil
	}

	seed := Seed(message)
	ranked := make([]int, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(a, b int) bool {
		return Hash(ranked[a], seed) < Hash(ranked[b], seed)
	})

	set := ranked[:Count(len(cands))]
	sort.Ints(set)
	return set
}

// Mask returns message with every non-whitespace character outside the
// reveal set replaced by [Glyph]. The result has the same number of
// characters as message.
func Mask(message string) string {
	revealed := make(map[int]bool)
	for _, i := range Indices(message) {
		revealed[i] = true
	}

	var b strings.Builder
	b.Grow(len(message))
	i := 0
	for _, r := range message {
		if unicode.IsSpace(r) || revealed[i] {
			b.WriteRune(r)
		} else {
			b.WriteRune(Glyph)
		}
		i++
	}
	return b.String()
}

package wrap

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		maxLines int
		want     []string
	}{
		{
			name: "fits", text: "생일 축하해", maxChars: 18, maxLines: 6,
			want: []string{"생일 축하해"},
		},
		{
			name: "greedy", text: "the quick brown fox jumps over", maxChars: 10, maxLines: 6,
			want: []string{"the quick", "brown fox", "jumps over"},
		},
		{
			name: "exact fit", text: "aaaa bbbbb cc", maxChars: 10, maxLines: 6,
			want: []string{"aaaa bbbbb", "cc"},
		},
		{
			name: "newline forces split", text: "안녕\n잘 지내", maxChars: 18, maxLines: 6,
			want: []string{"안녕", "잘 지내"},
		},
		{
			name: "newline then wrap", text: "short\nthis segment needs wrapping", maxChars: 12, maxLines: 6,
			want: []string{"short", "this segment", "needs", "wrapping"},
		},
		{
			name: "blank line kept", text: "a\n\nb", maxChars: 5, maxLines: 6,
			want: []string{"a", "", "b"},
		},
		{
			name: "long word unsplit", text: "hi supercalifragilistic yo", maxChars: 8, maxLines: 6,
			want: []string{"hi", "supercalifragilistic", "yo"},
		},
		{
			name: "long word first", text: "abcdefghijkl mn", maxChars: 5, maxLines: 6,
			want: []string{"abcdefghijkl", "mn"},
		},
		{
			name: "truncated", text: "1\n2\n3\n4\n5\n6\n7\n8", maxChars: 5, maxLines: 6,
			want: []string{"1", "2", "3", "4", "5", "6"},
		},
		{
			name: "korean wrap counts characters", text: "가나다 라마바 사아자 차카타", maxChars: 7, maxLines: 6,
			want: []string{"가나다 라마바", "사아자 차카타"},
		},
		{
			name: "empty", text: "", maxChars: 10, maxLines: 6,
			want: []string{""},
		},
		{
			name: "zero lines", text: "anything", maxChars: 10, maxLines: 0,
			want: nil,
		},
		{
			name: "zero width", text: "anything", maxChars: 0, maxLines: 5,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines(tt.text, tt.maxChars, tt.maxLines)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLinesBounded(t *testing.T) {
	texts := []string{
		strings.Repeat("word ", 100),
		strings.Repeat("■■■ ■■ ■■■■ ", 40),
		"a\nb\nc\nd\ne\nf\ng\nh\ni\nj",
		strings.Repeat("x", 50) + " " + strings.Repeat("y ", 30),
		"mixed 한글 and English text with\nnewlines and averyveryverylongwordthatwontfit",
	}

	for _, text := range texts {
		for _, maxChars := range []int{1, 5, 10, 18, 22} {
			for _, maxLines := range []int{1, 5, 6} {
				lines := Lines(text, maxChars, maxLines)
				if len(lines) > maxLines {
					t.Errorf("Lines(%q, %d, %d) returned %d lines", text, maxChars, maxLines, len(lines))
				}
				for _, l := range lines {
					if utf8.RuneCountInString(l) > maxChars && strings.Contains(l, " ") {
						t.Errorf("Lines(%q, %d, %d) line %q exceeds width", text, maxChars, maxLines, l)
					}
				}
			}
		}
	}
}

func TestTruncated(t *testing.T) {
	if Truncated("a\nb", 5, 2) {
		t.Error("Truncated() = true for text that fits")
	}
	if !Truncated("a\nb\nc", 5, 2) {
		t.Error("Truncated() = false for text with three lines and budget two")
	}
}

package logproc

import (
	"unicode"
	"unicode/utf8"
)

// Match locates one case-insensitive occurrence of a search query in
// a processed line's stripped text.
type Match struct {
	Line   int // index into the processed line slice
	Offset int // byte offset within Line.Text
	Length int // byte length of the matched region in Line.Text
}

// Search returns every case-insensitive occurrence of query across
// lines, ordered by (line, offset). Offsets and lengths index the
// original stripped text, so case folding that changes a rune's byte
// width (İ, Ⱥ) never skews them. The caller stores the result and
// navigates it with a cursor, so match traversal never rescans.
func Search(lines []Line, query string) []Match {
	if query == "" {
		return nil
	}
	var matches []Match
	for i := range lines {
		text := lines[i].Text
		for off := 0; off < len(text); {
			if n := foldMatch(text[off:], query); n > 0 {
				matches = append(matches, Match{Line: i, Offset: off, Length: n})
				off += n
				continue
			}
			_, size := utf8.DecodeRuneInString(text[off:])
			off += size
		}
	}
	return matches
}

// foldMatch returns the byte length of a prefix of s equal to query
// under Unicode simple case folding, or 0 when there is none.
func foldMatch(s, query string) int {
	n := 0
	for _, qr := range query {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || !foldEq(r, qr) {
			return 0
		}
		n += size
	}
	return n
}

func foldEq(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// NextMatch returns the cursor position after advancing by dir (+1 or
// -1), clamped to the list bounds. An empty list returns -1.
func NextMatch(cur, dir, total int) int {
	if total == 0 {
		return -1
	}
	next := cur + dir
	if next < 0 {
		return 0
	}
	if next >= total {
		return total - 1
	}
	return next
}

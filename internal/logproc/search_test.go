package logproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	lines := Process("Error: build failed\nall ok\nno ERROR here", TimestampHidden)

	t.Run("case-insensitive across lines", func(t *testing.T) {
		matches := Search(lines, "error")
		require.Len(t, matches, 2)
		assert.Equal(t, 0, matches[0].Line)
		assert.Equal(t, 0, matches[0].Offset)
		assert.Equal(t, 2, matches[1].Line)
		assert.Equal(t, 3, matches[1].Offset)
		for _, m := range matches {
			assert.Equal(t, len("error"), m.Length)
		}
	})

	t.Run("multiple matches on one line", func(t *testing.T) {
		got := Search(Process("abc abc abc", TimestampHidden), "abc")
		require.Len(t, got, 3)
		assert.Equal(t, []int{0, 4, 8}, []int{got[0].Offset, got[1].Offset, got[2].Offset})
	})

	t.Run("empty query returns nil", func(t *testing.T) {
		assert.Nil(t, Search(lines, ""))
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, Search(lines, "zzz"))
	})

	t.Run("offsets stay valid when folding changes byte width", func(t *testing.T) {
		// İ lowers to a shorter byte sequence, Ⱥ to a longer one; a
		// match after either must still slice the original text.
		lines := Process("İİİİ error", TimestampHidden)
		matches := Search(lines, "error")
		require.Len(t, matches, 1)
		m := matches[0]
		assert.Equal(t, "error", lines[m.Line].Text[m.Offset:m.Offset+m.Length])

		lines = Process("ȺȺ FAIL tail", TimestampHidden)
		matches = Search(lines, "fail")
		require.Len(t, matches, 1)
		m = matches[0]
		assert.Equal(t, "FAIL", lines[m.Line].Text[m.Offset:m.Offset+m.Length])
	})

	t.Run("offsets index stripped text", func(t *testing.T) {
		styled := Process("2026-01-12T10:00:00Z \x1b[31merror\x1b[0m tail", TimestampHidden)
		matches := Search(styled, "error")
		require.Len(t, matches, 1)
		line := styled[matches[0].Line]
		assert.Equal(t, "error", line.Text[matches[0].Offset:matches[0].Offset+matches[0].Length])
	})
}

func TestNextMatch(t *testing.T) {
	tests := []struct {
		cur, dir, total, want int
	}{
		{-1, 1, 3, 0},
		{0, 1, 3, 1},
		{2, 1, 3, 2},
		{0, -1, 3, 0},
		{2, -1, 3, 1},
		{0, 1, 0, -1},
	}
	for _, tt := range tests {
		got := NextMatch(tt.cur, tt.dir, tt.total)
		if got != tt.want {
			t.Errorf("NextMatch(%d, %d, %d) = %d, want %d", tt.cur, tt.dir, tt.total, got, tt.want)
		}
	}
}

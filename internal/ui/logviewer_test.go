package ui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theogf/peeplab/internal/logproc"
	"github.com/theogf/peeplab/internal/ui/styles"
)

func newTestViewer(trace string) LogViewer {
	lv := NewLogViewer(styles.DefaultStyles())
	lv.SetSize(80, 24)
	lv.SetTrace(trace, "build", 1)
	return lv
}

func TestLogViewerSearch(t *testing.T) {
	t.Run("enter search mode and submit query", func(t *testing.T) {
		lv := newTestViewer("line one\nline two error\nline three\nline four ERROR\nline five")

		lv, _ = lv.Update(keyPress('/'))
		assert.True(t, lv.searching)

		for _, r := range "error" {
			lv, _ = lv.Update(keyPress(r))
		}
		lv, _ = lv.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, lv.searching)
		assert.Equal(t, "error", lv.query)
		require.Len(t, lv.matches, 2)
		assert.Equal(t, 0, lv.matchIdx)
		assert.Equal(t, 1, lv.matches[0].Line)
		assert.Equal(t, 3, lv.matches[1].Line)
	})

	t.Run("next and prev clamp at the ends", func(t *testing.T) {
		lv := newTestViewer("ERROR one\nfiller\nERROR two")
		lv.query = "error"
		lv.matches = logproc.Search(lv.lines, "error")
		lv.matchIdx = 0

		lv, _ = lv.Update(keyPress('n'))
		assert.Equal(t, 1, lv.matchIdx)
		lv, _ = lv.Update(keyPress('n'))
		assert.Equal(t, 1, lv.matchIdx)
		lv, _ = lv.Update(keyPress('N'))
		assert.Equal(t, 0, lv.matchIdx)
		lv, _ = lv.Update(keyPress('N'))
		assert.Equal(t, 0, lv.matchIdx)
	})

	t.Run("navigating matches scrolls but never reprocesses", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 100; i++ {
			fmt.Fprintf(&b, "line %d\n", i)
		}
		b.WriteString("the error line")
		lv := newTestViewer(b.String())
		lv.query = "error"
		lv.matches = logproc.Search(lv.lines, "error")
		before := lv.lines

		lv, _ = lv.Update(keyPress('n'))
		assert.Greater(t, lv.offset, 0)
		assert.Same(t, &before[0], &lv.lines[0])
	})

	t.Run("escape cancels search entry", func(t *testing.T) {
		lv := newTestViewer("content")
		lv, _ = lv.Update(keyPress('/'))
		require.True(t, lv.searching)
		lv, _ = lv.Update(tea.KeyMsg{Type: tea.KeyEscape})
		assert.False(t, lv.searching)
		assert.Empty(t, lv.query)
	})
}

func TestLogViewerScrolling(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	trace := b.String()

	t.Run("scroll stops at the bounds", func(t *testing.T) {
		lv := newTestViewer(trace)

		lv, _ = lv.Update(keyPress('k'))
		assert.Equal(t, 0, lv.offset)

		lv, _ = lv.Update(keyPress('G'))
		bottom := lv.offset
		assert.Equal(t, lv.maxOffset(), bottom)
		lv, _ = lv.Update(keyPress('j'))
		assert.Equal(t, bottom, lv.offset)

		lv, _ = lv.Update(keyPress('g'))
		assert.Equal(t, 0, lv.offset)
	})

	t.Run("short traces never scroll", func(t *testing.T) {
		lv := newTestViewer("one\ntwo")
		lv, _ = lv.Update(keyPress('G'))
		assert.Equal(t, 0, lv.offset)
	})
}

func TestLogViewerTimestampToggle(t *testing.T) {
	trace := "2026-01-12T10:35:38.187431Z 00O \x1b[0KBuild succeeded"

	lv := newTestViewer(trace)
	require.Len(t, lv.lines, 1)
	assert.Equal(t, "", lv.lines[0].Prefix)

	lv, _ = lv.Update(keyPress('t'))
	assert.Equal(t, logproc.TimestampDateOnly, lv.mode)
	assert.Equal(t, "2026-01-12 ", lv.lines[0].Prefix)

	lv, _ = lv.Update(keyPress('t'))
	assert.Equal(t, logproc.TimestampFull, lv.mode)
	assert.Equal(t, "2026-01-12T10:35:38.187431Z ", lv.lines[0].Prefix)
	assert.Contains(t, lv.View(), "2026-01-12T10:35:38.187431Z")

	lv, _ = lv.Update(keyPress('t'))
	assert.Equal(t, logproc.TimestampHidden, lv.mode)
}

func TestLogViewerSetTrace(t *testing.T) {
	t.Run("same job and content keeps position", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 100; i++ {
			fmt.Fprintf(&b, "line %d\n", i)
		}
		trace := b.String()
		lv := newTestViewer(trace)
		lv, _ = lv.Update(keyPress('G'))
		bottom := lv.offset

		lv.SetTrace(trace, "build", 1)
		assert.Equal(t, bottom, lv.offset)
	})

	t.Run("new job resets view state", func(t *testing.T) {
		lv := newTestViewer("old content error")
		lv.query = "error"
		lv.matches = logproc.Search(lv.lines, "error")

		lv.SetTrace("fresh content", "deploy", 2)
		assert.Equal(t, 0, lv.offset)
		assert.Empty(t, lv.query)
		assert.Empty(t, lv.matches)
		assert.Equal(t, "deploy", lv.jobName)
	})
}

func TestLogViewerBack(t *testing.T) {
	lv := newTestViewer("content")
	_, cmd := lv.Update(tea.KeyMsg{Type: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, backMsg{}, cmd())
}

package logproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessPrefixes(t *testing.T) {
	t.Run("runner line with timestamp and stream marker", func(t *testing.T) {
		raw := "2026-01-12T10:35:38.187431Z 00O \x1b[0KBuild succeeded"

		lines := Process(raw, TimestampHidden)
		require.Len(t, lines, 1)
		assert.Equal(t, "Build succeeded", lines[0].Text)
		assert.Equal(t, "2026-01-12T10:35:38.187431Z", lines[0].Timestamp)
		assert.Equal(t, "", lines[0].Prefix)

		lines = Process(raw, TimestampFull)
		assert.Equal(t, "Build succeeded", lines[0].Text)
		assert.Equal(t, "2026-01-12T10:35:38.187431Z ", lines[0].Prefix)

		lines = Process(raw, TimestampDateOnly)
		assert.Equal(t, "2026-01-12 ", lines[0].Prefix)
	})

	t.Run("NUL runs are consumed", func(t *testing.T) {
		lines := Process("\x00\x00\x00hello", TimestampHidden)
		require.Len(t, lines, 1)
		assert.Equal(t, "hello", lines[0].Text)
	})

	t.Run("unrecognized prefix is left intact", func(t *testing.T) {
		lines := Process("??? some content", TimestampHidden)
		require.Len(t, lines, 1)
		assert.Equal(t, "??? some content", lines[0].Text)
	})

	t.Run("numeric status line is not a stream marker", func(t *testing.T) {
		lines := Process("404 not found", TimestampHidden)
		require.Len(t, lines, 1)
		assert.Equal(t, "404 not found", lines[0].Text)

		lines = Process("200 OK", TimestampHidden)
		require.Len(t, lines, 1)
		assert.Equal(t, "200 OK", lines[0].Text)
	})

	t.Run("timestamp glued to content is not a timestamp", func(t *testing.T) {
		lines := Process("2026-01-12T10:35:38Zgarbage", TimestampHidden)
		require.Len(t, lines, 1)
		assert.Equal(t, "", lines[0].Timestamp)
		assert.Equal(t, "2026-01-12T10:35:38Zgarbage", lines[0].Text)
	})

	t.Run("section markers render blank", func(t *testing.T) {
		raw := "section_start:1700000000:build\r\x1b[0Kstep\nactual output\nsection_end:1700000001:build\r\x1b[0K"
		lines := Process(raw, TimestampHidden)
		require.Len(t, lines, 3)
		assert.Equal(t, "", lines[0].Text)
		assert.Equal(t, "actual output", lines[1].Text)
		assert.Equal(t, "", lines[2].Text)
	})

	t.Run("line count matches input", func(t *testing.T) {
		lines := Process("a\nb\nc", TimestampHidden)
		assert.Len(t, lines, 3)
	})
}

func TestProcessStyling(t *testing.T) {
	t.Run("basic SGR colors become spans", func(t *testing.T) {
		lines := Process("\x1b[31mFAIL\x1b[0m ok", TimestampHidden)
		require.Len(t, lines, 1)
		assert.Equal(t, "FAIL ok", lines[0].Text)
		require.Len(t, lines[0].Spans, 1)
		span := lines[0].Spans[0]
		assert.Equal(t, 0, span.Start)
		assert.Equal(t, 4, span.End)
		assert.Equal(t, "1", span.Fg)
	})

	t.Run("256-color and truecolor forms", func(t *testing.T) {
		lines := Process("\x1b[38;5;208morange\x1b[0m", TimestampHidden)
		require.Len(t, lines[0].Spans, 1)
		assert.Equal(t, "208", lines[0].Spans[0].Fg)

		lines = Process("\x1b[38;2;255;85;85mred\x1b[0m", TimestampHidden)
		require.Len(t, lines[0].Spans, 1)
		assert.Equal(t, "#ff5555", lines[0].Spans[0].Fg)
	})

	t.Run("bold and reset", func(t *testing.T) {
		lines := Process("\x1b[1;32mPASS\x1b[0m rest", TimestampHidden)
		require.Len(t, lines[0].Spans, 1)
		assert.True(t, lines[0].Spans[0].Bold)
		assert.Equal(t, "2", lines[0].Spans[0].Fg)
	})

	t.Run("malformed escape degrades to plain text", func(t *testing.T) {
		lines := Process("ok \x1b[38;5mbroken", TimestampHidden)
		require.Len(t, lines, 1)
		assert.Empty(t, lines[0].Spans)
		assert.Equal(t, "ok broken", lines[0].Text)
	})

	t.Run("leading erase-line escape is stripped, SGR kept", func(t *testing.T) {
		lines := Process("\x1b[0K\x1b[32mdone\x1b[0m", TimestampHidden)
		require.Len(t, lines, 1)
		assert.Equal(t, "done", lines[0].Text)
		require.Len(t, lines[0].Spans, 1)
		assert.Equal(t, "2", lines[0].Spans[0].Fg)
	})
}

func TestProcessIsPure(t *testing.T) {
	raw := "2026-01-12T10:35:38Z 00O line one\nplain line"
	first := Process(raw, TimestampFull)
	second := Process(raw, TimestampFull)
	assert.Equal(t, first, second)
}

func TestTimestampModeCycle(t *testing.T) {
	mode := TimestampHidden
	assert.Equal(t, TimestampDateOnly, mode.Next())
	assert.Equal(t, TimestampFull, mode.Next().Next())
	assert.Equal(t, TimestampHidden, mode.Next().Next().Next())
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		ts   string
		mode TimestampMode
		want string
	}{
		{"", TimestampFull, ""},
		{"2026-01-12T10:35:38Z", TimestampHidden, ""},
		{"2026-01-12T10:35:38Z", TimestampDateOnly, "2026-01-12 "},
		{"2026-01-12T10:35:38.187431Z", TimestampFull, "2026-01-12T10:35:38.187431Z "},
	}
	for _, tt := range tests {
		got := FormatTimestamp(tt.ts, tt.mode)
		if got != tt.want {
			t.Errorf("FormatTimestamp(%q, %v) = %q, want %q", tt.ts, tt.mode, got, tt.want)
		}
	}
}

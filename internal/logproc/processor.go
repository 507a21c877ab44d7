// Package logproc turns raw CI job traces into display-ready lines.
// Processing runs once per trace load or timestamp-mode change; the
// result is cached by the caller and never recomputed per frame.
package logproc

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// TimestampMode controls how much of an extracted timestamp is shown.
type TimestampMode int

const (
	TimestampHidden TimestampMode = iota
	TimestampDateOnly
	TimestampFull
)

// Next cycles Hidden → DateOnly → Full → Hidden.
func (m TimestampMode) Next() TimestampMode {
	return (m + 1) % 3
}

func (m TimestampMode) String() string {
	switch m {
	case TimestampDateOnly:
		return "date"
	case TimestampFull:
		return "full"
	default:
		return "hidden"
	}
}

// Span is a styled range over a line's stripped text, decoded from
// embedded SGR sequences. Start and End are byte offsets.
type Span struct {
	Start, End int
	Fg, Bg     string // lipgloss-compatible color values, "" = default
	Bold       bool
	Faint      bool
	Italic     bool
	Underline  bool
}

func (s Span) styled() bool {
	return s.Fg != "" || s.Bg != "" || s.Bold || s.Faint || s.Italic || s.Underline
}

// Line is one processed trace line.
type Line struct {
	Text      string // control tokens stripped
	Timestamp string // raw ISO-8601 token, "" when the line had none
	Prefix    string // rendered timestamp prefix for the processing mode
	Spans     []Span
	Length    int // len(Text), used for search offset mapping
}

// prefixRule consumes one known leading control token, returning the
// number of bytes eaten (0 = no match) and, for the timestamp rule,
// the extracted token. The rule set is deliberately open for
// extension: trace formats grow new markers, and an unrecognized
// prefix must be left intact rather than guessed at.
type prefixRule func(s string) (n int, timestamp string)

var timestampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?`)

// streamMarkerRe matches the short runner stream tags such as 00O and
// 00E that precede each trace line. The leading "00" is literal: a
// looser shape would eat the start of lines like "404 not found".
var streamMarkerRe = regexp.MustCompile(`^00[0-9A-Fa-fOE](\s|$)`)

var prefixRules = []prefixRule{
	consumeNULs,
	consumeNonSGREscape,
	consumeTimestamp,
	consumeStreamMarker,
}

func consumeNULs(s string) (int, string) {
	n := 0
	for n < len(s) && s[n] == 0 {
		n++
	}
	return n, ""
}

// consumeNonSGREscape eats leading terminal control sequences like the
// erase-line \x1b[0K that runners emit before content. SGR sequences
// (final byte 'm') are left alone so the span decoder sees them.
func consumeNonSGREscape(s string) (int, string) {
	if len(s) < 2 || s[0] != 0x1b || s[1] != '[' {
		return 0, ""
	}
	i := 2
	for i < len(s) && (s[i] == ';' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i >= len(s) || s[i] == 'm' {
		return 0, ""
	}
	return i + 1, ""
}

func consumeTimestamp(s string) (int, string) {
	loc := timestampRe.FindStringIndex(s)
	if loc == nil {
		return 0, ""
	}
	n := loc[1]
	ts := s[:n]
	// A timestamp token must be followed by a separator, not glued to
	// log content.
	if n < len(s) && s[n] != ' ' && s[n] != '\t' && s[n] != 0 && s[n] != 0x1b {
		return 0, ""
	}
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n, ts
}

func consumeStreamMarker(s string) (int, string) {
	loc := streamMarkerRe.FindStringIndex(s)
	if loc == nil {
		return 0, ""
	}
	n := 3
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n, ""
}

// Process converts a raw trace into display lines for the given
// timestamp mode. It is a pure function of its two inputs.
func Process(raw string, mode TimestampMode) []Line {
	split := strings.Split(raw, "\n")
	lines := make([]Line, 0, len(split))
	for _, src := range split {
		lines = append(lines, processLine(src, mode))
	}
	return lines
}

func processLine(src string, mode TimestampMode) Line {
	// Section markers delimit collapsible regions in the raw trace;
	// they carry no content and render as blank lines.
	if strings.Contains(src, "section_start:") || strings.Contains(src, "section_end:") {
		return Line{}
	}

	rest := src
	var timestamp string
	for {
		consumed := false
		for _, rule := range prefixRules {
			n, ts := rule(rest)
			if n == 0 {
				continue
			}
			if ts != "" && timestamp == "" {
				timestamp = ts
			}
			rest = rest[n:]
			consumed = true
		}
		if !consumed {
			break
		}
	}

	text, spans, ok := decodeStyles(rest)
	if !ok {
		// Malformed escape data: degrade this line to plain text.
		text, spans = ansi.Strip(rest), nil
	}

	return Line{
		Text:      text,
		Timestamp: timestamp,
		Prefix:    FormatTimestamp(timestamp, mode),
		Spans:     spans,
		Length:    len(text),
	}
}

// FormatTimestamp renders an extracted timestamp token for a mode.
// The token is never re-parsed; DateOnly simply takes the date part.
func FormatTimestamp(ts string, mode TimestampMode) string {
	if ts == "" || mode == TimestampHidden {
		return ""
	}
	if mode == TimestampDateOnly && len(ts) >= 10 {
		return ts[:10] + " "
	}
	return ts + " "
}

// decodeStyles strips SGR sequences from s, recording them as spans
// over the remaining text. ok is false when the escape data is too
// malformed to interpret.
func decodeStyles(s string) (string, []Span, bool) {
	if !strings.ContainsRune(s, 0x1b) && !strings.ContainsRune(s, 0) {
		return s, nil, true
	}

	var b strings.Builder
	var spans []Span
	cur := Span{}
	flush := func() {
		if cur.styled() && b.Len() > cur.Start {
			cur.End = b.Len()
			spans = append(spans, cur)
		}
		cur = Span{Start: b.Len(), Fg: cur.Fg, Bg: cur.Bg, Bold: cur.Bold,
			Faint: cur.Faint, Italic: cur.Italic, Underline: cur.Underline}
	}

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == 0:
			i++
		case c == 0x1b:
			n, params, isSGR := scanEscape(s[i:])
			if n == 0 {
				return "", nil, false
			}
			if isSGR {
				flush()
				next, ok := applySGR(cur, params)
				if !ok {
					return "", nil, false
				}
				cur = next
			}
			i += n
		default:
			b.WriteByte(c)
			i++
		}
	}
	flush()
	return b.String(), spans, true
}

// scanEscape measures one escape sequence starting at s[0] == ESC.
// Returns its byte length, the parameter string for SGR sequences,
// and whether it was an SGR.
func scanEscape(s string) (n int, params string, isSGR bool) {
	if len(s) < 2 {
		return 0, "", false
	}
	switch s[1] {
	case '[': // CSI
		i := 2
		for i < len(s) && (s[i] == ';' || s[i] == '?' || (s[i] >= '0' && s[i] <= '9')) {
			i++
		}
		if i >= len(s) {
			return 0, "", false
		}
		final := s[i]
		if final < 0x40 || final > 0x7e {
			return 0, "", false
		}
		return i + 1, s[2:i], final == 'm'
	case ']': // OSC, terminated by BEL or ST
		for i := 2; i < len(s); i++ {
			if s[i] == 0x07 {
				return i + 1, "", false
			}
			if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2, "", false
			}
		}
		return 0, "", false
	default:
		return 2, "", false
	}
}

var basicColors = [...]string{"0", "1", "2", "3", "4", "5", "6", "7"}

func applySGR(cur Span, params string) (Span, bool) {
	if params == "" {
		return Span{Start: cur.Start}, true
	}
	fields := strings.Split(params, ";")
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "", "0":
			cur = Span{Start: cur.Start}
		case "1":
			cur.Bold = true
		case "2":
			cur.Faint = true
		case "3":
			cur.Italic = true
		case "4":
			cur.Underline = true
		case "22":
			cur.Bold, cur.Faint = false, false
		case "23":
			cur.Italic = false
		case "24":
			cur.Underline = false
		case "39":
			cur.Fg = ""
		case "49":
			cur.Bg = ""
		case "38", "48":
			color, skip, ok := extendedColor(fields[i+1:])
			if !ok {
				return cur, false
			}
			if fields[i] == "38" {
				cur.Fg = color
			} else {
				cur.Bg = color
			}
			i += skip
		default:
			f := fields[i]
			switch {
			case len(f) == 2 && f[0] == '3' && f[1] >= '0' && f[1] <= '7':
				cur.Fg = basicColors[f[1]-'0']
			case len(f) == 2 && f[0] == '4' && f[1] >= '0' && f[1] <= '7':
				cur.Bg = basicColors[f[1]-'0']
			case len(f) == 2 && f[0] == '9' && f[1] >= '0' && f[1] <= '7':
				cur.Fg = bright(f[1])
			case len(f) == 3 && f[0] == '1' && f[1] == '0' && f[2] >= '0' && f[2] <= '7':
				cur.Bg = bright(f[2])
			default:
				// Unknown attribute: ignore rather than fail the line.
			}
		}
	}
	return cur, true
}

func bright(digit byte) string {
	return []string{"8", "9", "10", "11", "12", "13", "14", "15"}[digit-'0']
}

// extendedColor handles 38;5;n and 38;2;r;g;b forms. Returns the
// color value, the number of consumed fields, and ok.
func extendedColor(fields []string) (string, int, bool) {
	if len(fields) == 0 {
		return "", 0, false
	}
	switch fields[0] {
	case "5":
		if len(fields) < 2 || !isNum(fields[1]) {
			return "", 0, false
		}
		return fields[1], 2, true
	case "2":
		if len(fields) < 4 || !isNum(fields[1]) || !isNum(fields[2]) || !isNum(fields[3]) {
			return "", 0, false
		}
		return rgbHex(fields[1], fields[2], fields[3]), 4, true
	}
	return "", 0, false
}

func isNum(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func rgbHex(r, g, b string) string {
	const hex = "0123456789abcdef"
	out := []byte("#000000")
	for i, f := range []string{r, g, b} {
		v := 0
		for j := 0; j < len(f); j++ {
			v = v*10 + int(f[j]-'0')
		}
		if v > 255 {
			v = 255
		}
		out[1+i*2] = hex[v>>4]
		out[2+i*2] = hex[v&0xf]
	}
	return string(out)
}

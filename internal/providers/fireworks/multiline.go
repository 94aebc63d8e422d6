package fireworks

import "strings"

// blockDetector decides, mid-stream, where a dynamic-multiline
// completion should be cut. The first generated line fixes the mode:
// plain lines settle at the first newline, brace-opened blocks settle
// when the bracket balance closes, colon-opened blocks settle when the
// indentation returns to the opening level.
type blockDetector struct {
	currentLine string // text after the last newline of the document prefix
	mode        blockMode
	decided     bool
	baseIndent  int
}

type blockMode int

const (
	modeSingleLine blockMode = iota
	modeBrace
	modeIndent
)

func newBlockDetector(prefix string) *blockDetector {
	current := prefix
	if i := strings.LastIndex(prefix, "\n"); i >= 0 {
		current = prefix[i+1:]
	}
	return &blockDetector{currentLine: current}
}

// Evaluate inspects the accumulated completion text and reports whether
// the block has settled. The returned text excludes the terminating
// newline. A false result means the caller should keep streaming.
func (d *blockDetector) Evaluate(acc string) (string, bool) {
	first := strings.Index(acc, "\n")
	if first < 0 {
		return "", false
	}

	if !d.decided {
		d.decide(acc[:first])
	}

	switch d.mode {
	case modeSingleLine:
		return acc[:first], true
	case modeBrace:
		return d.evaluateBrace(acc)
	default:
		return d.evaluateIndent(acc)
	}
}

// decide fixes the mode from the full opening line, which is the text
// already typed on the cursor line plus the first generated line.
func (d *blockDetector) decide(firstLine string) {
	d.decided = true
	opening := strings.TrimRight(d.currentLine+firstLine, " \t")
	if opening == "" {
		return
	}
	if braceDepth(opening) > 0 {
		d.mode = modeBrace
		return
	}
	if strings.HasSuffix(opening, ":") {
		d.mode = modeIndent
		d.baseIndent = indentWidth(d.currentLine)
	}
}

func (d *blockDetector) evaluateBrace(acc string) (string, bool) {
	depth := braceDepth(d.currentLine)
	for i := 0; i < len(acc); i++ {
		switch acc[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case '\n':
			if depth <= 0 {
				return acc[:i], true
			}
		}
	}
	return "", false
}

func (d *blockDetector) evaluateIndent(acc string) (string, bool) {
	lines := strings.Split(acc, "\n")
	complete := lines[:len(lines)-1]
	for i := 1; i < len(complete); i++ {
		line := complete[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if indentWidth(line) <= d.baseIndent {
			kept := complete[:i]
			for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
				kept = kept[:len(kept)-1]
			}
			return strings.Join(kept, "\n"), true
		}
	}
	return "", false
}

func braceDepth(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
	}
	return depth
}

// indentWidth measures leading whitespace with tabs weighted as four
// columns.
func indentWidth(s string) int {
	w := 0
	for _, r := range s {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}

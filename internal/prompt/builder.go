package prompt

import (
	"strings"

	"codefill/internal/core"
	"codefill/internal/language"
)

// Input carries everything the builder needs besides the snippet list.
// PromptChars is the hard character budget derived from the model's
// context window.
type Input struct {
	Family      Family
	Model       string
	FileName    string
	LanguageID  string
	Prefix      string
	Suffix      string
	PromptChars int
}

// Build returns the longest prompt that fits the character budget while
// including as many leading snippets as possible, in the order supplied.
//
// The packing is greedy with one-step lookahead: each iteration renders a
// candidate with one more snippet and keeps the previous candidate as soon
// as the budget is hit. The zero-snippet candidate is returned even when it
// alone exceeds the budget; callers truncate downstream rather than fail.
func Build(in Input, snippets []core.Snippet) string {
	suffix := SuffixAfterFirstNewline(in.Suffix)
	comment := language.LineComment(in.LanguageID)

	render := func(included []core.Snippet) string {
		intro := renderIntro(in, included, comment)
		return in.Family.Render(in.Model, in.FileName, intro, in.Prefix, suffix)
	}

	prompt := render(nil)
	for i := range snippets {
		next := render(snippets[:i+1])
		if len(next) >= in.PromptChars {
			return prompt
		}
		prompt = next
	}
	return prompt
}

// renderIntro builds the commented context block for the included
// snippets. Empty when nothing is included. For families without a
// dedicated filename token, the block leads with a Path: line.
func renderIntro(in Input, included []core.Snippet, comment string) string {
	if len(included) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(included)+1)
	if in.Family != FamilyStarCoder {
		blocks = append(blocks, "Path: "+in.FileName)
	}
	for _, s := range included {
		if s.Symbol != "" {
			blocks = append(blocks, "Additional documentation for `"+s.Symbol+"`:\n\n"+s.Content)
		} else {
			blocks = append(blocks, "Here is a reference snippet of code from "+s.FileName+":\n\n"+s.Content)
		}
	}

	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")
	for i, line := range lines {
		lines[i] = comment + line
	}
	return strings.Join(lines, "\n") + "\n"
}

// SuffixAfterFirstNewline drops everything up to (but not including) the
// first line break of the suffix. The evaluated models cannot reliably
// avoid duplicating same-line suffix content, so the remainder of the
// cursor line is never sent. A suffix without a newline yields "".
func SuffixAfterFirstNewline(suffix string) string {
	i := strings.Index(suffix, "\n")
	if i < 0 {
		return ""
	}
	return suffix[i:]
}

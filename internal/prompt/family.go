// Package prompt assembles model-specific infilling prompts from the text
// around the cursor and a ranked list of context snippets.
package prompt

import (
	"log/slog"
	"strings"
)

// Family is the closed set of prompt formats a model can require. It is
// resolved once from the model identifier when a provider is constructed,
// not re-derived per call.
type Family int

const (
	// FamilyStarCoder covers all starcoder* models. Infilling uses the
	// <fim_prefix>/<fim_suffix>/<fim_middle> tokens and a dedicated
	// <filename> token instead of a Path: comment.
	FamilyStarCoder Family = iota
	// FamilyLlamaCode covers all llama-code* models (Code Llama infilling
	// format).
	FamilyLlamaCode
	// FamilyInstruct covers the one instruction-tuned model that needs an
	// instruction wrapper instead of raw infilling tokens.
	FamilyInstruct
	// FamilyUnknown is the fallback for unrecognized models: raw
	// concatenation with no infilling markers.
	FamilyUnknown
)

// InstructModel is the only model rendered with FamilyInstruct.
const InstructModel = "mistral-7b-instruct-4k"

const (
	eotStarCoder = "<|endoftext|>"
	eotLlamaCode = " <EOT>"

	openingCodeTag = "<CODE5711>"
	closingCodeTag = "</CODE5711>"
)

// ResolveFamily maps a resolved model identifier to its prompt family.
// Order matters: prefix families are checked before exact-match special
// cases.
func ResolveFamily(model string) Family {
	switch {
	case strings.HasPrefix(model, "starcoder"):
		return FamilyStarCoder
	case strings.HasPrefix(model, "llama-code"):
		return FamilyLlamaCode
	case model == InstructModel:
		return FamilyInstruct
	default:
		return FamilyUnknown
	}
}

func (f Family) String() string {
	switch f {
	case FamilyStarCoder:
		return "starcoder"
	case FamilyLlamaCode:
		return "llama-code"
	case FamilyInstruct:
		return "instruct"
	default:
		return "unknown"
	}
}

// Render produces the full infilling prompt for the family. intro is the
// already-commented context block (may be empty), suffix is already
// truncated to the text after the first line break.
func (f Family) Render(model, fileName, intro, prefix, suffix string) string {
	switch f {
	case FamilyStarCoder:
		return "<filename>" + fileName + "<fim_prefix>" + intro + prefix + "<fim_suffix>" + suffix + "<fim_middle>"
	case FamilyLlamaCode:
		return "<PRE> " + intro + prefix + " <SUF>" + suffix + " <MID>"
	case FamilyInstruct:
		return renderInstruct(fileName, intro, prefix, suffix)
	default:
		slog.Warn("no infilling prompt template for model, using raw concatenation", "model", model)
		return intro + prefix
	}
}

// renderInstruct wraps the completion request in an instruction. The
// expected completion span is marked with an opening/closing tag pair so
// the model completes only inside the markers without re-emitting the
// surrounding code.
func renderInstruct(fileName, intro, prefix, suffix string) string {
	head, tail := headAndTail(prefix)

	// When the preceding block ends with an open brace the model tends to
	// re-emit it; trim the dangling brace-plus-newline.
	block := tail
	if strings.HasSuffix(tail, "{\n") {
		block = strings.TrimRight(tail, " \t\n")
	}

	var b strings.Builder
	b.WriteString("<s>[INST] Below is the code from file path ")
	b.WriteString(fileName)
	b.WriteString(". Review the code outside the XML tags to detect the functionality, formats, style, patterns, and logics in use. ")
	b.WriteString("Then, use what you detect to complete the code inside the XML tags precisely, without duplicating code outside the tags. Here is the code:\n")
	b.WriteString("```\n")
	b.WriteString(intro)
	b.WriteString(head)
	b.WriteString(block)
	b.WriteString(openingCodeTag)
	b.WriteString(closingCodeTag)
	b.WriteString(suffix)
	b.WriteString("\n```[/INST]\n")
	b.WriteString(openingCodeTag)
	return b.String()
}

// headAndTail splits the prefix so tail holds the block of the last two
// non-empty lines and head holds everything before it. A prefix with
// fewer non-empty lines is all tail.
func headAndTail(s string) (head, tail string) {
	lines := strings.Split(s, "\n")
	nonEmpty := 0
	tailStart := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			nonEmpty++
			if nonEmpty == 2 {
				tailStart = i
				break
			}
		}
	}
	if tailStart <= 0 {
		return "", s
	}
	return strings.Join(lines[:tailStart], "\n") + "\n", strings.Join(lines[tailStart:], "\n")
}

// PostProcess strips the family's end-of-text sentinel from raw model
// output. A no-op for families without a known sentinel.
func (f Family) PostProcess(content string) string {
	switch f {
	case FamilyStarCoder:
		return strings.ReplaceAll(content, eotStarCoder, "")
	case FamilyLlamaCode:
		return strings.ReplaceAll(content, eotLlamaCode, "")
	case FamilyInstruct:
		// The instruct template closes its own marker; drop anything the
		// model emits from the closing tag onward.
		if i := strings.Index(content, closingCodeTag); i >= 0 {
			return content[:i]
		}
		return content
	default:
		return content
	}
}

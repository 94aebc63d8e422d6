// Package language maps editor language identifiers to comment-syntax
// metadata used when embedding context snippets into a prompt.
package language

// Profile describes the comment syntax of a language.
type Profile struct {
	// LineComment is the prefix that starts a line comment, including any
	// trailing space (e.g. "// ", "# ").
	LineComment string
}

// profiles is keyed by the editor's language identifier.
var profiles = map[string]Profile{
	"c":               {LineComment: "// "},
	"cpp":             {LineComment: "// "},
	"csharp":          {LineComment: "// "},
	"css":             {LineComment: "/* "},
	"dart":            {LineComment: "// "},
	"elixir":          {LineComment: "# "},
	"go":              {LineComment: "// "},
	"haskell":         {LineComment: "-- "},
	"java":            {LineComment: "// "},
	"javascript":      {LineComment: "// "},
	"javascriptreact": {LineComment: "// "},
	"kotlin":          {LineComment: "// "},
	"lua":             {LineComment: "-- "},
	"perl":            {LineComment: "# "},
	"php":             {LineComment: "// "},
	"python":          {LineComment: "# "},
	"r":               {LineComment: "# "},
	"ruby":            {LineComment: "# "},
	"rust":            {LineComment: "// "},
	"scala":           {LineComment: "// "},
	"shellscript":     {LineComment: "# "},
	"sql":             {LineComment: "-- "},
	"swift":           {LineComment: "// "},
	"typescript":      {LineComment: "// "},
	"typescriptreact": {LineComment: "// "},
	"yaml":            {LineComment: "# "},
}

// DefaultLineComment is used when a language has no profile.
const DefaultLineComment = "// "

// Resolve returns the profile for the given language identifier. Unknown
// languages return ok=false; callers fall back to DefaultLineComment.
func Resolve(languageID string) (Profile, bool) {
	p, ok := profiles[languageID]
	return p, ok
}

// LineComment returns the line-comment prefix for the language, falling
// back to DefaultLineComment for unknown languages.
func LineComment(languageID string) string {
	if p, ok := Resolve(languageID); ok {
		return p.LineComment
	}
	return DefaultLineComment
}

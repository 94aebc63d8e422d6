package language

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		languageID string
		wantOK     bool
		wantPrefix string
	}{
		{"go", true, "// "},
		{"python", true, "# "},
		{"haskell", true, "-- "},
		{"typescriptreact", true, "// "},
		{"brainfuck", false, ""},
		{"", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.languageID, func(t *testing.T) {
			p, ok := Resolve(tt.languageID)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.languageID, ok, tt.wantOK)
			}
			if ok && p.LineComment != tt.wantPrefix {
				t.Errorf("LineComment = %q, want %q", p.LineComment, tt.wantPrefix)
			}
		})
	}
}

func TestLineComment_FallsBackToDefault(t *testing.T) {
	if got := LineComment("brainfuck"); got != DefaultLineComment {
		t.Errorf("LineComment(unknown) = %q, want %q", got, DefaultLineComment)
	}
	if got := LineComment("python"); got != "# " {
		t.Errorf("LineComment(python) = %q, want %q", got, "# ")
	}
}

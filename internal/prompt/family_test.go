package prompt

import (
	"strings"
	"testing"
)

func TestResolveFamily(t *testing.T) {
	tests := []struct {
		model string
		want  Family
	}{
		{"starcoder-16b", FamilyStarCoder},
		{"starcoder-7b", FamilyStarCoder},
		{"starcoder-hybrid", FamilyStarCoder},
		{"llama-code-7b", FamilyLlamaCode},
		{"llama-code-13b-instruct", FamilyLlamaCode},
		{"mistral-7b-instruct-4k", FamilyInstruct},
		{"wizardcoder-15b", FamilyUnknown},
		{"", FamilyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := ResolveFamily(tt.model); got != tt.want {
				t.Errorf("ResolveFamily(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestPostProcess(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		in     string
		want   string
	}{
		{"starcoder sentinel stripped", FamilyStarCoder, "return x\n<|endoftext|>", "return x\n"},
		{"starcoder clean passthrough", FamilyStarCoder, "return x", "return x"},
		{"llama sentinel stripped", FamilyLlamaCode, "return x <EOT>", "return x"},
		{"instruct closing tag cuts", FamilyInstruct, "return x</CODE5711>garbage", "return x"},
		{"unknown no-op", FamilyUnknown, "return x<|endoftext|>", "return x<|endoftext|>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.family.PostProcess(tt.in); got != tt.want {
				t.Errorf("PostProcess(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderInstruct(t *testing.T) {
	got := FamilyInstruct.Render("mistral-7b-instruct-4k", "app.py", "", "import os\n\ndef run():\n    x = 1\n", "\nprint(run())")
	if !strings.Contains(got, "file path app.py") {
		t.Errorf("instruct prompt must embed the file path: %q", got)
	}
	if !strings.Contains(got, "<CODE5711></CODE5711>") {
		t.Errorf("instruct prompt must contain the empty marker pair: %q", got)
	}
	if !strings.HasSuffix(got, "<CODE5711>") {
		t.Errorf("instruct prompt must end by opening the completion span: %q", got)
	}
}

func TestRenderInstruct_TrimsDanglingOpenBrace(t *testing.T) {
	prefix := "package main\n\nfunc main() {\n"
	got := FamilyInstruct.Render("mistral-7b-instruct-4k", "main.go", "", prefix, "")
	if strings.Contains(got, "{\n<CODE5711>") {
		t.Errorf("dangling open brace newline must be trimmed before the marker: %q", got)
	}
	if !strings.Contains(got, "func main() {<CODE5711>") {
		t.Errorf("expected trimmed block directly before marker: %q", got)
	}
}

func TestHeadAndTail(t *testing.T) {
	head, tail := headAndTail("a\nb\nc\nd\n")
	if head != "a\nb\n" {
		t.Errorf("head = %q, want %q", head, "a\nb\n")
	}
	if tail != "c\nd\n" {
		t.Errorf("tail = %q, want %q", tail, "c\nd\n")
	}

	head, tail = headAndTail("only\n")
	if head != "" || tail != "only\n" {
		t.Errorf("short prefix should be all tail, got head=%q tail=%q", head, tail)
	}
}

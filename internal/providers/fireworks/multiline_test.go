package fireworks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockDetector(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		acc     string
		want    string
		settled bool
	}{
		{
			name:    "plain line settles at first newline",
			prefix:  "x := ",
			acc:     "compute(a, b)\nnext line",
			want:    "compute(a, b)",
			settled: true,
		},
		{
			name:    "brace block settles when balance closes",
			prefix:  "func add(a, b int) int {",
			acc:     "\n\treturn a + b\n}\nfunc next() {",
			want:    "\n\treturn a + b\n}",
			settled: true,
		},
		{
			name:   "open brace block keeps streaming",
			prefix: "func add(a, b int) int {",
			acc:    "\n\tif a > b {\n\t\treturn a\n",
		},
		{
			name:    "nested braces settle at the outer close",
			prefix:  "if ok {",
			acc:     "\n\tfor i := range xs {\n\t\tuse(i)\n\t}\n}\ntrailer",
			want:    "\n\tfor i := range xs {\n\t\tuse(i)\n\t}\n}",
			settled: true,
		},
		{
			name:    "opener generated rather than typed",
			prefix:  "",
			acc:     "func greet() {\n\tfmt.Println(\"hi\")\n}\nextra",
			want:    "func greet() {\n\tfmt.Println(\"hi\")\n}",
			settled: true,
		},
		{
			name:    "colon block settles on dedent",
			prefix:  "def fib(n):",
			acc:     "\n    if n < 2:\n        return n\n    return fib(n-1) + fib(n-2)\nprint(fib(10))\n",
			want:    "\n    if n < 2:\n        return n\n    return fib(n-1) + fib(n-2)",
			settled: true,
		},
		{
			name:   "colon block skips blank lines while open",
			prefix: "def f():",
			acc:    "\n    a = 1\n\n    b = 2\n",
		},
		{
			name:   "no complete line yet",
			prefix: "x := ",
			acc:    "partial",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, settled := newBlockDetector(tt.prefix).Evaluate(tt.acc)
			assert.Equal(t, tt.settled, settled)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockDetectorIncremental(t *testing.T) {
	d := newBlockDetector("func sum(xs []int) int {")
	chunks := []string{"\n\ttotal := 0", "\n\tfor _, x := range xs {\n\t\ttotal += x\n\t}", "\n\treturn total\n}", "\nfunc other() {"}

	acc := ""
	for i, chunk := range chunks[:3] {
		acc += chunk
		_, settled := d.Evaluate(acc)
		assert.False(t, settled, "chunk %d must keep the stream open", i)
	}
	acc += chunks[3]
	got, settled := d.Evaluate(acc)
	assert.True(t, settled)
	assert.Equal(t, "\n\ttotal := 0\n\tfor _, x := range xs {\n\t\ttotal += x\n\t}\n\treturn total\n}", got)
}

func TestIndentWidth(t *testing.T) {
	assert.Equal(t, 0, indentWidth("x"))
	assert.Equal(t, 4, indentWidth("    x"))
	assert.Equal(t, 4, indentWidth("\tx"))
	assert.Equal(t, 6, indentWidth("\t  y"))
	assert.Equal(t, 2, indentWidth("  "))
}

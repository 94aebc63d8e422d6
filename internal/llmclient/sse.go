package llmclient

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// sseEvent is one parsed server-sent event.
type sseEvent struct {
	name string
	data []byte
}

// sseReader parses a text/event-stream body. Only the subset of the SSE
// format the backend emits is handled: event and data fields, multi-line
// data joined with newlines, comments ignored.
type sseReader struct {
	scanner *bufio.Scanner
}

func newSSEReader(r io.Reader) *sseReader {
	scanner := bufio.NewScanner(r)
	// Completion payloads can exceed the default 64K token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseReader{scanner: scanner}
}

// next returns the next event, or io.EOF when the stream ends.
func (r *sseReader) next() (*sseEvent, error) {
	var (
		name      string
		dataLines [][]byte
		sawField  bool
	)

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			if sawField {
				return &sseEvent{name: name, data: bytes.Join(dataLines, []byte("\n"))}, nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
			sawField = true
		case "data":
			dataLines = append(dataLines, []byte(value))
			sawField = true
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if sawField {
		// Stream ended mid-event; deliver what we have.
		return &sseEvent{name: name, data: bytes.Join(dataLines, []byte("\n"))}, nil
	}
	return nil, io.EOF
}

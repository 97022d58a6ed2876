package types

import (
	"fmt"
	"os"
	"strings"
)

// Document is an immutable, line-oriented text document
type Document struct {
	path string
	text string
}

// NewDocument wraps text as a Document. path is informational and may be empty.
func NewDocument(path, text string) *Document {
	return &Document{path: path, text: text}
}

// LoadDocument reads a document from disk.
// A missing file yields an error wrapping ErrSourceNotFound.
func LoadDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	return NewDocument(path, string(content)), nil
}

// Path returns the path the document was loaded from, if any
func (d *Document) Path() string {
	return d.path
}

// Text returns the full document text
func (d *Document) Text() string {
	return d.text
}

// Lines returns the document split into lines, each keeping its terminator.
// The final line has no terminator when the text does not end in a newline.
func (d *Document) Lines() []string {
	if d.text == "" {
		return nil
	}

	lines := strings.SplitAfter(d.text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// LineCount counts lines by line boundaries. A trailing line without a
// newline still counts; an empty document has zero lines.
func (d *Document) LineCount() int {
	if d.text == "" {
		return 0
	}

	n := strings.Count(d.text, "\n")
	if !strings.HasSuffix(d.text, "\n") {
		n++
	}
	return n
}

// ByteCount returns the document size in bytes
func (d *Document) ByteCount() int {
	return len(d.text)
}

// Slice returns the text covered by span
func (d *Document) Slice(span Span) (string, error) {
	if err := span.Validate(); err != nil {
		return "", err
	}
	if span.End > len(d.text) {
		return "", fmt.Errorf("%w: end %d beyond document length %d", ErrInvalidSpan, span.End, len(d.text))
	}
	return d.text[span.Start:span.End], nil
}

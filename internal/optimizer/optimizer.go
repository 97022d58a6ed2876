// Package optimizer removes comments and excess blank lines from a template
// without changing its structure.
//
// The pass is line-local and conservative: a trailing comment is only
// stripped when its marker is preceded by a space, so a '#' inside a value
// such as `"data#primary"` is never touched. Indentation and non-comment
// content are copied byte for byte.
package optimizer

import (
	"strings"

	"github.com/dshills/cfnslim/pkg/types"
)

const (
	// CommentMarker starts a comment
	CommentMarker = '#'

	// DefaultMaxBlankRun is the longest run of blank lines kept
	DefaultMaxBlankRun = 2

	// DefaultLineThreshold is the advisory line ceiling for downstream tooling
	DefaultLineThreshold = 5500

	// dividerRun is the run of '=' that marks a section divider comment
	dividerRun = "=========="
)

// Optimizer strips comments and collapses blank lines
type Optimizer struct {
	maxBlankRun   int
	lineThreshold int
}

// Option configures an Optimizer
type Option func(*Optimizer)

// WithMaxBlankRun sets the longest run of consecutive blank lines kept.
// Values below zero are ignored.
func WithMaxBlankRun(n int) Option {
	return func(o *Optimizer) {
		if n >= 0 {
			o.maxBlankRun = n
		}
	}
}

// WithLineThreshold sets the advisory line ceiling. Values <= 0 are ignored.
func WithLineThreshold(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.lineThreshold = n
		}
	}
}

// New creates an Optimizer
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		maxBlankRun:   DefaultMaxBlankRun,
		lineThreshold: DefaultLineThreshold,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LineThreshold returns the advisory line ceiling
func (o *Optimizer) LineThreshold() int {
	return o.lineThreshold
}

// Optimize produces the reduced form of doc in a single forward pass
func (o *Optimizer) Optimize(doc *types.Document) *types.OptimizedDocument {
	result := &types.OptimizedDocument{LineThreshold: o.lineThreshold}

	var out strings.Builder
	out.Grow(doc.ByteCount())

	blankRun := 0
	for _, line := range doc.Lines() {
		content, eol := splitEOL(line)

		if IsCommentLine(content) {
			if IsDivider(content) {
				result.DividersDropped++
			} else {
				result.CommentLinesDropped++
			}
			continue
		}

		if strings.TrimSpace(content) == "" {
			blankRun++
			if blankRun > o.maxBlankRun {
				result.BlankLinesCollapsed++
				continue
			}
			out.WriteString(line)
			continue
		}
		blankRun = 0

		if stripped, ok := StripTrailingComment(content); ok {
			result.InlineCommentsStripped++
			out.WriteString(stripped)
			out.WriteString(eol)
			continue
		}

		out.WriteString(line)
	}

	result.Document = types.NewDocument(doc.Path(), out.String())
	result.Feasible = o.Feasible(result.Document)
	return result
}

// Feasible reports whether doc is below the advisory line threshold
func (o *Optimizer) Feasible(doc *types.Document) bool {
	return doc.LineCount() < o.lineThreshold
}

// IsCommentLine reports whether the first non-whitespace character is the
// comment marker
func IsCommentLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return trimmed != "" && trimmed[0] == CommentMarker
}

// IsDivider reports whether a comment line is a visual section divider
func IsDivider(line string) bool {
	return IsCommentLine(line) && strings.Contains(line, dividerRun)
}

// StripTrailingComment removes a trailing comment from a non-comment line.
// Only the first marker outside quoted text is considered, and only when it
// is directly preceded by a space; otherwise the line is returned unchanged
// with ok false.
func StripTrailingComment(line string) (string, bool) {
	pos := commentStart(line)
	if pos <= 0 {
		return line, false
	}

	// A line that would become blank is left alone so it stays content
	stripped := strings.TrimRight(line[:pos], " \t")
	if strings.TrimSpace(stripped) == "" {
		return line, false
	}
	return stripped, true
}

// commentStart returns the offset of the trailing comment marker, or -1.
// A quote only opens a quoted scalar at the start of a token, so an
// apostrophe inside a plain word does not hide a later comment.
func commentStart(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '"':
			if c == '\\' {
				i++
			} else if c == '"' {
				quote = 0
			}
		case quote == '\'':
			if c == '\'' {
				if i+1 < len(line) && line[i+1] == '\'' {
					i++
				} else {
					quote = 0
				}
			}
		case (c == '"' || c == '\'') && tokenStart(line, i):
			quote = c
		case c == CommentMarker:
			if i > 0 && line[i-1] == ' ' {
				return i
			}
			return -1
		}
	}
	return -1
}

// tokenStart reports whether position i begins a YAML scalar token
func tokenStart(line string, i int) bool {
	if i == 0 {
		return true
	}
	switch line[i-1] {
	case ' ', '\t', '[', '{', ',':
		return true
	}
	return false
}

// splitEOL separates a line from its terminator ("\n", "\r\n" or none)
func splitEOL(line string) (string, string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}

package types

import (
	"crypto/sha256"
	"errors"
)

// OutputDocument is one self-contained document produced by splitting
type OutputDocument struct {
	// Identification
	Name        string
	Filename    string
	Description string

	// Source location of the extracted segment
	Span Span

	// Content
	Body        string   // Extracted segment, byte-identical to the source
	Content     string   // Preamble + Resources marker + Body + trailer
	ContentHash [32]byte // SHA-256 of Content
}

// ComputeContentHash computes the SHA-256 hash of the document content
func (o *OutputDocument) ComputeContentHash() {
	o.ContentHash = sha256.Sum256([]byte(o.Content))
}

// Validate performs structural validation of the output document
func (o *OutputDocument) Validate() error {
	if o.Name == "" {
		return ErrEmptyName
	}

	if o.Filename == "" {
		return errors.New("output filename is required")
	}

	if err := o.Span.Validate(); err != nil {
		return err
	}

	if o.Content == "" {
		return errors.New("output content cannot be empty")
	}

	var zeroHash [32]byte
	if o.ContentHash == zeroHash {
		return errors.New("content hash must be computed")
	}

	return nil
}

// OptimizedDocument is the comment- and whitespace-reduced form of a Document
type OptimizedDocument struct {
	*Document

	// Per-rule counters
	CommentLinesDropped    int
	DividersDropped        int
	InlineCommentsStripped int
	BlankLinesCollapsed    int

	// Feasible is true when the line count is below the advisory threshold
	Feasible      bool
	LineThreshold int
}

// Package types provides shared type definitions for cfnslim.
//
// This package defines the domain types passed between the locator, splitter,
// optimizer and metrics components: documents, section specs, byte spans,
// generated output documents and reduction metrics.
//
// # Core Types
//
// Document is the immutable input template. Every operation builds a new
// Document instead of mutating one:
//
//	doc, err := types.LoadDocument("template.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.LineCount(), doc.ByteCount())
//
// SectionSpec names a region of the resource block by its marker strings:
//
//	spec := types.SectionSpec{
//	    Name:        "monitoring",
//	    StartMarker: "# CloudWatch Monitoring",
//	    Description: "CloudWatch Monitoring and Alarms",
//	}
//
// Span is a half-open byte range [Start, End) into a Document. Byte offsets
// are used instead of line numbers so that extraction keeps blank lines and
// indentation exactly.
//
// # Validation
//
// Specs and spans implement Validate so configuration errors surface before
// any output is produced:
//
//	if err := spec.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Envelope
//
// Envelope is the single JSON object emitted by the CLI in --json mode. It
// always carries success and citations, and carries error only on failure.
package types

// Package splitter carves a template's resource block into self-contained
// documents.
//
// Each located section becomes one output document:
//
//	<preamble rendered with the section description>
//	Resources:
//	<segment bytes, exactly as in the source>
//
//	# Minimal outputs for this section
//	Outputs:
//	  StackName: ... Export Name ${Environment}-<name>-StackName
//
// Sections whose start marker is missing are logged and skipped; the rest of
// the batch still splits. Output is a pure function of the document and the
// specs, so repeated runs produce byte-identical content (compare
// OutputDocument.ContentHash).
//
// Each output is decoded with yaml.v3 as a structural check. Documents that
// fail are still produced and listed in Result.Malformed.
package splitter

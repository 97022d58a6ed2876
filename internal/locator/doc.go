// Package locator resolves named sections of a template to byte spans.
//
// Sections are found by literal marker substrings, not by parsing the
// document grammar. Templates handled here are regenerated from source on
// every run, so substring landmarks are sufficient and keep the tool
// independent of YAML tag extensions such as !Ref and !Sub.
//
// # Boundary Rules
//
//   - Start: first occurrence of the section's start marker. Missing start
//     markers return types.ErrSectionNotFound; callers skip the section.
//   - End: first occurrence of the end marker after the start marker.
//   - Fallback: when the end marker is empty or absent, the section runs to
//     the last "Outputs:" in the document (the rightmost one, so that an
//     earlier "Outputs:" inside a value does not truncate it), or to the end
//     of the document when there is none.
//
// Sections are located independently. Gaps and overlaps between sections are
// legal; Coverage reports them.
//
// # Basic Usage
//
//	loc := locator.New()
//	span, err := loc.Locate(doc, spec)
//	if errors.Is(err, types.ErrSectionNotFound) {
//	    // skip
//	}
//	body, _ := doc.Slice(span)
package locator

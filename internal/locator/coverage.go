package locator

import (
	"sort"
	"strings"

	"github.com/dshills/cfnslim/pkg/types"
)

// Overlap records two sections that share bytes
type Overlap struct {
	First  string
	Second string
	Span   types.Span
}

// CoverageReport describes how resolved sections cover the resource block
type CoverageReport struct {
	Block    types.Span
	Gaps     []types.Span // Regions of the block covered by no section
	Overlaps []Overlap
	Outside  []string // Sections that extend beyond the block
}

// Complete reports whether the sections tile the block with no overlaps and
// no gaps other than whitespace
func (r *CoverageReport) Complete(doc *types.Document) bool {
	if len(r.Overlaps) > 0 {
		return false
	}
	for _, gap := range r.Gaps {
		text, err := doc.Slice(gap)
		if err != nil || strings.TrimSpace(text) != "" {
			return false
		}
	}
	return true
}

// Coverage compares resolved sections against the resource block.
// Unresolved entries are ignored.
func (l *Locator) Coverage(doc *types.Document, located []Located) (*CoverageReport, error) {
	block, err := l.ResourceBlock(doc)
	if err != nil {
		return nil, err
	}

	found := make([]Located, 0, len(located))
	for _, loc := range located {
		if loc.Found() {
			found = append(found, loc)
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Span.Start < found[j].Span.Start
	})

	report := &CoverageReport{Block: block}

	cursor := block.Start
	for i, loc := range found {
		if !block.Contains(loc.Span) {
			report.Outside = append(report.Outside, loc.Spec.Name)
		}

		if loc.Span.Start > cursor && cursor < block.End {
			report.Gaps = append(report.Gaps, types.Span{Start: cursor, End: min(loc.Span.Start, block.End)})
		}
		if loc.Span.End > cursor {
			cursor = loc.Span.End
		}

		for _, next := range found[i+1:] {
			if loc.Span.Overlaps(next.Span) {
				report.Overlaps = append(report.Overlaps, Overlap{
					First:  loc.Spec.Name,
					Second: next.Spec.Name,
					Span: types.Span{
						Start: max(loc.Span.Start, next.Span.Start),
						End:   min(loc.Span.End, next.Span.End),
					},
				})
			}
		}
	}

	if cursor < block.End {
		report.Gaps = append(report.Gaps, types.Span{Start: cursor, End: block.End})
	}

	return report, nil
}

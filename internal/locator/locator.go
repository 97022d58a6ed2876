package locator

import (
	"fmt"
	"strings"

	"github.com/dshills/cfnslim/pkg/types"
)

const (
	// ResourcesMarker opens the resource block
	ResourcesMarker = "Resources:"
	// OutputsMarker opens the trailing output declarations
	OutputsMarker = "Outputs:"
)

// Locator finds section boundaries by marker substring search
type Locator struct {
	resourcesMarker string
	outputsMarker   string
}

// Option configures a Locator
type Option func(*Locator)

// WithMarkers overrides the resource and output block markers
func WithMarkers(resources, outputs string) Option {
	return func(l *Locator) {
		if resources != "" {
			l.resourcesMarker = resources
		}
		if outputs != "" {
			l.outputsMarker = outputs
		}
	}
}

// New creates a Locator using the standard template markers
func New(opts ...Option) *Locator {
	l := &Locator{
		resourcesMarker: ResourcesMarker,
		outputsMarker:   OutputsMarker,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ResourcesMarker returns the marker that opens the resource block
func (l *Locator) ResourcesMarker() string {
	return l.resourcesMarker
}

// Located pairs a spec with its resolved span or resolution error
type Located struct {
	Spec types.SectionSpec
	Span types.Span
	Err  error
}

// Found reports whether the spec was resolved
func (l Located) Found() bool {
	return l.Err == nil
}

// Locate resolves the byte span of spec within doc
func (l *Locator) Locate(doc *types.Document, spec types.SectionSpec) (types.Span, error) {
	text := doc.Text()

	start := strings.Index(text, spec.StartMarker)
	if start == -1 {
		return types.Span{}, fmt.Errorf("%w: %s", types.ErrSectionNotFound, spec.Name)
	}

	end := -1
	if spec.EndMarker != "" {
		from := start + len(spec.StartMarker)
		if rel := strings.Index(text[from:], spec.EndMarker); rel != -1 {
			end = from + rel
		}
	}
	if end == -1 {
		end = l.trailingEnd(text, start)
	}

	return types.Span{Start: start, End: end}, nil
}

// UsedFallback reports whether spec's end was resolved by the trailing
// Outputs fallback rather than its own end marker
func (l *Locator) UsedFallback(doc *types.Document, spec types.SectionSpec, span types.Span) bool {
	if spec.EndMarker == "" {
		return true
	}
	return !strings.HasPrefix(doc.Text()[span.End:], spec.EndMarker)
}

// LocateAll resolves every spec in order. Misses are recorded, not fatal.
func (l *Locator) LocateAll(doc *types.Document, specs []types.SectionSpec) []Located {
	located := make([]Located, 0, len(specs))
	for _, spec := range specs {
		span, err := l.Locate(doc, spec)
		located = append(located, Located{Spec: spec, Span: span, Err: err})
	}
	return located
}

// trailingEnd returns the offset of the last Outputs marker at or after
// start, or the end of the text
func (l *Locator) trailingEnd(text string, start int) int {
	last := strings.LastIndex(text, l.outputsMarker)
	if last < start {
		return len(text)
	}
	return last
}

// ResourceBlock returns the span between the Resources marker line and the
// last Outputs marker. When the document has no Outputs marker the block
// runs to the end of the document.
func (l *Locator) ResourceBlock(doc *types.Document) (types.Span, error) {
	text := doc.Text()

	idx := strings.Index(text, l.resourcesMarker)
	if idx == -1 {
		return types.Span{}, types.ErrNoResourcesMarker
	}

	start := lineEnd(text, idx+len(l.resourcesMarker))
	return types.Span{Start: start, End: l.trailingEnd(text, start)}, nil
}

// Header returns everything before the resource block, including the
// Resources marker line
func (l *Locator) Header(doc *types.Document) (string, error) {
	block, err := l.ResourceBlock(doc)
	if err != nil {
		return "", err
	}
	return doc.Text()[:block.Start], nil
}

// Outputs returns the trailing output declarations, from the last Outputs
// marker to the end of the document. It is empty when there is none.
func (l *Locator) Outputs(doc *types.Document) string {
	text := doc.Text()
	last := strings.LastIndex(text, l.outputsMarker)
	if last == -1 {
		return ""
	}
	return text[last:]
}

// lineEnd returns the offset just past the newline that ends the line
// containing pos, or len(text)
func lineEnd(text string, pos int) int {
	if nl := strings.IndexByte(text[pos:], '\n'); nl != -1 {
		return pos + nl + 1
	}
	return len(text)
}

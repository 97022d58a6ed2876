package splitter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/dshills/cfnslim/internal/locator"
	"github.com/dshills/cfnslim/pkg/types"
)

// TrailerFormat is the synthesized output block appended to every split
// document. The single verb receives the section's stack name.
const TrailerFormat = `

# Minimal outputs for this section
Outputs:
  StackName:
    Description: Name of this CloudFormation stack
    Value: !Ref AWS::StackName
    Export:
      Name: !Sub ${Environment}-%s-StackName
`

// Splitter builds one output document per located section
type Splitter struct {
	locator       *locator.Locator
	preamble      *template.Template
	logger        *zap.Logger
	skipWellCheck bool
}

// Config contains configuration for the splitter
type Config struct {
	Preamble       string           // text/template source; receives PreambleData
	Locator        *locator.Locator // default: locator.New()
	Logger         *zap.Logger      // default: no-op
	SkipWellFormed bool             // Disable the yaml.v3 structural check
}

// PreambleData is the data passed to the preamble template
type PreambleData struct {
	Name        string
	Description string
}

// Skipped records a section that produced no output
type Skipped struct {
	Name string
	Err  error
}

// Malformed records an output that failed the structural check
type Malformed struct {
	Name string
	Err  error
}

// Result contains the outcome of a split
type Result struct {
	Documents []*types.OutputDocument // In spec order
	Skipped   []Skipped
	Malformed []Malformed

	// Informational extracts from the source; not copied into outputs
	Header   string
	Outputs  string
	Coverage *locator.CoverageReport
}

// New creates a Splitter
func New(cfg Config) (*Splitter, error) {
	tmpl, err := template.New("preamble").Option("missingkey=error").Parse(cfg.Preamble)
	if err != nil {
		return nil, fmt.Errorf("failed to parse preamble: %w", err)
	}

	loc := cfg.Locator
	if loc == nil {
		loc = locator.New()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Splitter{
		locator:       loc,
		preamble:      tmpl,
		logger:        logger,
		skipWellCheck: cfg.SkipWellFormed,
	}, nil
}

// ValidateSpecs checks every spec and rejects specs whose output files collide
func ValidateSpecs(specs []types.SectionSpec) error {
	seen := make(map[string]string, len(specs))
	for i := range specs {
		spec := &specs[i]
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("section %d (%q): %w", i, spec.Name, err)
		}

		filename := strings.ToLower(spec.Filename())
		if prev, ok := seen[filename]; ok {
			return fmt.Errorf("%w: %q and %q both write %s", types.ErrDuplicateOutput, prev, spec.Name, spec.Filename())
		}
		seen[filename] = spec.Name
	}
	return nil
}

// Split partitions doc along specs
func (s *Splitter) Split(doc *types.Document, specs []types.SectionSpec) (*Result, error) {
	if err := ValidateSpecs(specs); err != nil {
		return nil, err
	}

	result := &Result{
		Documents: make([]*types.OutputDocument, 0, len(specs)),
		Outputs:   s.locator.Outputs(doc),
	}

	header, err := s.locator.Header(doc)
	switch {
	case errors.Is(err, types.ErrNoResourcesMarker):
		s.logger.Warn("source has no resource block marker",
			zap.String("marker", s.locator.ResourcesMarker()))
	case err != nil:
		return nil, err
	default:
		result.Header = header
	}

	located := s.locator.LocateAll(doc, specs)
	for _, loc := range located {
		if !loc.Found() {
			s.logger.Warn("start marker not found, skipping section",
				zap.String("section", loc.Spec.Name))
			result.Skipped = append(result.Skipped, Skipped{Name: loc.Spec.Name, Err: loc.Err})
			continue
		}

		if n := strings.Count(doc.Text(), loc.Spec.StartMarker); n > 1 {
			s.logger.Warn("start marker occurs more than once, using the first",
				zap.String("section", loc.Spec.Name),
				zap.Int("occurrences", n),
				zap.Int("start", loc.Span.Start))
		}

		if s.locator.UsedFallback(doc, loc.Spec, loc.Span) {
			s.logger.Debug("end marker not found, extending to trailing outputs",
				zap.String("section", loc.Spec.Name),
				zap.Int("end", loc.Span.End))
		}

		out, err := s.build(doc, loc)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", loc.Spec.Name, err)
		}

		if !s.skipWellCheck {
			if err := CheckWellFormed(out.Content); err != nil {
				s.logger.Warn("split output is not well-formed",
					zap.String("section", out.Name),
					zap.Error(err))
				result.Malformed = append(result.Malformed, Malformed{Name: out.Name, Err: err})
			}
		}

		result.Documents = append(result.Documents, out)
	}

	if result.Header != "" {
		coverage, err := s.locator.Coverage(doc, located)
		if err != nil {
			return nil, err
		}
		result.Coverage = coverage
	}

	return result, nil
}

// build assembles the output document for a located section
func (s *Splitter) build(doc *types.Document, loc locator.Located) (*types.OutputDocument, error) {
	body, err := doc.Slice(loc.Span)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	if err := s.preamble.Execute(&content, PreambleData{
		Name:        loc.Spec.StackName(),
		Description: loc.Spec.Description,
	}); err != nil {
		return nil, fmt.Errorf("failed to render preamble: %w", err)
	}
	if content.Len() > 0 && !strings.HasSuffix(content.String(), "\n") {
		content.WriteString("\n")
	}

	content.WriteString(s.locator.ResourcesMarker())
	content.WriteString("\n")
	content.WriteString(body)
	content.WriteString(Trailer(loc.Spec.StackName()))

	out := &types.OutputDocument{
		Name:        loc.Spec.Name,
		Filename:    loc.Spec.Filename(),
		Description: loc.Spec.Description,
		Span:        loc.Span,
		Body:        body,
		Content:     content.String(),
	}
	out.ComputeContentHash()

	return out, out.Validate()
}

// Trailer renders the minimal output block for a stack name
func Trailer(stackName string) string {
	return fmt.Sprintf(TrailerFormat, stackName)
}

// Bodies concatenates the extracted segments in source order
func Bodies(result *Result) string {
	docs := make([]*types.OutputDocument, len(result.Documents))
	copy(docs, result.Documents)
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Span.Start < docs[j].Span.Start
	})

	var b strings.Builder
	for _, d := range docs {
		b.WriteString(d.Body)
	}
	return b.String()
}

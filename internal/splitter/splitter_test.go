package splitter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/cfnslim/internal/locator"
	"github.com/dshills/cfnslim/pkg/types"
)

const divider = "  # ==========================================\n  # "

const testPreamble = `AWSTemplateFormatVersion: "2010-09-09"
Description: Sample - {{ .Description }}

Parameters:
  Environment:
    Type: String
    Default: development
`

func loadSample(t *testing.T) *types.Document {
	t.Helper()
	doc, err := types.LoadDocument(filepath.Join("..", "..", "testdata", "sample-template.yaml"))
	require.NoError(t, err)
	return doc
}

func sampleSpecs() []types.SectionSpec {
	return []types.SectionSpec{
		{Name: "core", StartMarker: divider + "Core Infrastructure", EndMarker: divider + "API Gateway", Description: "Core"},
		{Name: "api", StartMarker: divider + "API Gateway", EndMarker: divider + "CloudWatch Monitoring", Description: "API"},
		{Name: "monitoring", StartMarker: divider + "CloudWatch Monitoring", Description: "Monitoring"},
	}
}

func newTestSplitter(t *testing.T, logger *zap.Logger) *Splitter {
	t.Helper()
	s, err := New(Config{Preamble: testPreamble, Logger: logger})
	require.NoError(t, err)
	return s
}

func TestSplit_ProducesOneDocumentPerSection(t *testing.T) {
	doc := loadSample(t)
	s := newTestSplitter(t, nil)

	result, err := s.Split(doc, sampleSpecs())
	require.NoError(t, err)

	require.Len(t, result.Documents, 3)
	assert.Empty(t, result.Skipped)
	assert.Empty(t, result.Malformed)

	names := []string{"core", "api", "monitoring"}
	for i, d := range result.Documents {
		assert.Equal(t, names[i], d.Name)
		assert.Equal(t, names[i]+".yaml", d.Filename)
		require.NoError(t, d.Validate())
	}
}

func TestSplit_DocumentLayout(t *testing.T) {
	doc := loadSample(t)
	s := newTestSplitter(t, nil)

	result, err := s.Split(doc, sampleSpecs())
	require.NoError(t, err)

	api := result.Documents[1]
	assert.True(t, strings.HasPrefix(api.Content, "AWSTemplateFormatVersion: \"2010-09-09\"\nDescription: Sample - API\n"))
	assert.Contains(t, api.Content, "\nResources:\n"+api.Body)
	assert.True(t, strings.HasSuffix(api.Content, api.Body+Trailer("api")))
	assert.Contains(t, api.Content, "Name: !Sub ${Environment}-api-StackName")

	// The source's richer outputs are not redistributed
	assert.NotContains(t, api.Content, "ApiId:")
	assert.Contains(t, result.Outputs, "ApiId:")
	assert.True(t, strings.HasSuffix(result.Header, "Resources:\n"))
}

func TestSplit_CompletenessForContiguousSpecs(t *testing.T) {
	doc := loadSample(t)
	s := newTestSplitter(t, nil)

	result, err := s.Split(doc, sampleSpecs())
	require.NoError(t, err)

	block, err := locator.New().ResourceBlock(doc)
	require.NoError(t, err)
	want, err := doc.Slice(block)
	require.NoError(t, err)

	assert.Equal(t, want, Bodies(result))
	require.NotNil(t, result.Coverage)
	assert.True(t, result.Coverage.Complete(doc))
}

func TestSplit_MissingMarkerIsSkipped(t *testing.T) {
	doc := loadSample(t)
	core, logs := observer.New(zap.WarnLevel)
	s := newTestSplitter(t, zap.New(core))

	base := sampleSpecs()
	specs := []types.SectionSpec{base[0], {Name: "ghost", StartMarker: "# nowhere"}, base[1], base[2]}

	result, err := s.Split(doc, specs)
	require.NoError(t, err)

	require.Len(t, result.Documents, 3)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "ghost", result.Skipped[0].Name)
	assert.ErrorIs(t, result.Skipped[0].Err, types.ErrSectionNotFound)

	warnings := logs.FilterMessage("start marker not found, skipping section").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "ghost", warnings[0].ContextMap()["section"])
}

func TestSplit_RepeatedStartMarkerWarns(t *testing.T) {
	doc := loadSample(t)
	core, logs := observer.New(zap.WarnLevel)
	s := newTestSplitter(t, zap.New(core))

	// "Type: AWS::" opens every resource in the sample
	specs := append(sampleSpecs(), types.SectionSpec{Name: "first-type", StartMarker: "Type: AWS::"})

	result, err := s.Split(doc, specs)
	require.NoError(t, err)
	require.Len(t, result.Documents, 4)
	assert.Equal(t, strings.Index(doc.Text(), "Type: AWS::"), result.Documents[3].Span.Start)

	warnings := logs.FilterMessage("start marker occurs more than once, using the first").All()
	require.Len(t, warnings, 1)
	fields := warnings[0].ContextMap()
	assert.Equal(t, "first-type", fields["section"])
	assert.Equal(t, int64(strings.Count(doc.Text(), "Type: AWS::")), fields["occurrences"])
}

func TestSplit_EndMarkerFallback(t *testing.T) {
	doc := loadSample(t)
	s := newTestSplitter(t, nil)

	specs := []types.SectionSpec{{
		Name:        "tail",
		StartMarker: divider + "API Gateway",
		EndMarker:   "# does not exist",
	}}

	result, err := s.Split(doc, specs)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)

	d := result.Documents[0]
	assert.Equal(t, strings.LastIndex(doc.Text(), "Outputs:"), d.Span.End)
	assert.Contains(t, d.Body, "ErrorAlarm:")
}

func TestSplit_Deterministic(t *testing.T) {
	doc := loadSample(t)

	first, err := newTestSplitter(t, nil).Split(doc, sampleSpecs())
	require.NoError(t, err)
	second, err := newTestSplitter(t, nil).Split(doc, sampleSpecs())
	require.NoError(t, err)

	require.Len(t, second.Documents, len(first.Documents))
	for i := range first.Documents {
		assert.Equal(t, first.Documents[i].ContentHash, second.Documents[i].ContentHash)
		assert.Equal(t, first.Documents[i].Content, second.Documents[i].Content)
	}
}

func TestSplit_DuplicateOutputIsConfigurationError(t *testing.T) {
	doc := loadSample(t)
	s := newTestSplitter(t, nil)

	specs := sampleSpecs()
	specs[2].Name = "core.yaml"

	result, err := s.Split(doc, specs)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, types.ErrDuplicateOutput)
}

func TestValidateSpecs(t *testing.T) {
	tests := []struct {
		name    string
		specs   []types.SectionSpec
		wantErr error
	}{
		{"valid", sampleSpecs(), nil},
		{"empty name", []types.SectionSpec{{StartMarker: "# a"}}, types.ErrEmptyName},
		{"path in name", []types.SectionSpec{{Name: "../etc", StartMarker: "# a"}}, types.ErrInvalidName},
		{"empty start", []types.SectionSpec{{Name: "a"}}, types.ErrEmptyStartMarker},
		{"case-insensitive duplicate", []types.SectionSpec{
			{Name: "Api", StartMarker: "# a"},
			{Name: "api", StartMarker: "# b"},
		}, types.ErrDuplicateOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpecs(tt.specs)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_InvalidPreamble(t *testing.T) {
	_, err := New(Config{Preamble: "Description: {{ .Description "})
	assert.Error(t, err)
}

func TestSplit_PreambleUnknownField(t *testing.T) {
	s, err := New(Config{Preamble: "Description: {{ .Missing }}\n"})
	require.NoError(t, err)

	_, err = s.Split(loadSample(t), sampleSpecs())
	assert.Error(t, err)
}

func TestSplit_MalformedOutputIsReported(t *testing.T) {
	// A section made only of comments leaves Resources empty
	text := "Resources:\n  # A\n  # just a note\n  # B\n  Thing:\n    Type: X\nOutputs:\n  O: 1\n"
	doc := types.NewDocument("", text)
	s := newTestSplitter(t, nil)

	result, err := s.Split(doc, []types.SectionSpec{
		{Name: "a", StartMarker: "# A", EndMarker: "  # B"},
		{Name: "b", StartMarker: "# B"},
	})
	require.NoError(t, err)

	require.Len(t, result.Documents, 2)
	require.Len(t, result.Malformed, 1)
	assert.Equal(t, "a", result.Malformed[0].Name)
	assert.ErrorIs(t, result.Malformed[0].Err, ErrEmptyResources)
}

func TestSplit_NoResourcesMarker(t *testing.T) {
	doc := types.NewDocument("", "Things:\n  # A\n  X: 1\n")
	s, err := New(Config{Preamble: testPreamble, SkipWellFormed: true})
	require.NoError(t, err)

	result, err := s.Split(doc, []types.SectionSpec{{Name: "a", StartMarker: "# A"}})
	require.NoError(t, err)
	assert.Empty(t, result.Header)
	assert.Nil(t, result.Coverage)
	require.Len(t, result.Documents, 1)
	assert.Empty(t, result.Malformed)
}

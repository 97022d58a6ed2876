package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    SectionSpec
		wantErr error
	}{
		{"valid", SectionSpec{Name: "core-infrastructure", StartMarker: "# Core"}, nil},
		{"valid with extension", SectionSpec{Name: "api.yaml", StartMarker: "# API"}, nil},
		{"empty name", SectionSpec{StartMarker: "# Core"}, ErrEmptyName},
		{"path separator", SectionSpec{Name: "../escape", StartMarker: "# Core"}, ErrInvalidName},
		{"leading dot", SectionSpec{Name: ".hidden", StartMarker: "# Core"}, ErrInvalidName},
		{"whitespace", SectionSpec{Name: "two words", StartMarker: "# Core"}, ErrInvalidName},
		{"empty start", SectionSpec{Name: "core"}, ErrEmptyStartMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSectionSpec_Filename(t *testing.T) {
	tests := []struct {
		name      string
		wantStack string
		wantFile  string
	}{
		{"core", "core", "core.yaml"},
		{"core.yaml", "core", "core.yaml"},
		{"core.yml", "core", "core.yaml"},
		{"v1.2-api", "v1.2-api", "v1.2-api.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := SectionSpec{Name: tt.name, StartMarker: "x"}
			assert.Equal(t, tt.wantStack, spec.StackName())
			assert.Equal(t, tt.wantFile, spec.Filename())
		})
	}
}

func TestOutputDocument_Validate(t *testing.T) {
	out := OutputDocument{
		Name:     "core",
		Filename: "core.yaml",
		Span:     Span{Start: 0, End: 4},
		Body:     "body",
		Content:  "Resources:\nbody",
	}
	assert.Error(t, out.Validate(), "hash not computed")

	out.ComputeContentHash()
	require.NoError(t, out.Validate())

	out.Span = Span{Start: 4, End: 0}
	assert.ErrorIs(t, out.Validate(), ErrInvalidSpan)
}

func TestEnvelope_JSON(t *testing.T) {
	data, err := json.Marshal(NewSuccessEnvelope("done"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"report":"done","citations":[]}`, string(data))

	data, err = json.Marshal(NewErrorEnvelope(ErrSourceNotFound))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"report":null,"citations":[],"error":"source document not found"}`, string(data))

	assert.Equal(t, "unknown error", NewErrorEnvelope(nil).Error)
}

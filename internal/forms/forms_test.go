package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormType(t *testing.T) {
	tests := []struct {
		input   string
		want    FormType
		wantErr bool
	}{
		{"intake", Intake, false},
		{"vf", VisualField, false},
		{"", "", true},
		{"Intake", "", true},
		{"visual-field", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormType(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestFieldRegion(t *testing.T) {
	intake := Intake.FieldRegion()
	assert.InDelta(t, 0.0, intake.Top, 1e-9)
	assert.InDelta(t, 1.0/3.0, intake.Bottom, 1e-9)

	vf := VisualField.FieldRegion()
	assert.InDelta(t, 1.0/7.0, vf.Bottom, 1e-9)
}

func TestFooterRegion(t *testing.T) {
	region, ok := Intake.FooterRegion()
	require.True(t, ok, "intake forms carry a dated footer")
	assert.InDelta(t, 0.9, region.Top, 1e-9)
	assert.InDelta(t, 1.0, region.Bottom, 1e-9)

	_, ok = VisualField.FooterRegion()
	assert.False(t, ok, "visual field pages have no dated footer")
}

func TestDefaultSentinels(t *testing.T) {
	s := DefaultSentinels()
	assert.Equal(t, "***", s.Text)
	assert.Equal(t, "10/10/1903", s.Date)
	assert.Equal(t, "(102) 301-2309", s.Phone)
}

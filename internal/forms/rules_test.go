package forms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesIntake(t *testing.T) {
	rules := Rules(Intake)
	require.Len(t, rules, 7)

	fields := make([]string, len(rules))
	for i, r := range rules {
		fields[i] = r.Field
	}
	assert.Equal(t, []string{
		FieldFirstName, FieldLastName, FieldDOB, FieldSex,
		FieldPhone, FieldAddress, FieldProvider,
	}, fields)
}

func TestRulesVisualField(t *testing.T) {
	rules := Rules(VisualField)
	require.Len(t, rules, 3)
	assert.Equal(t, FieldFullName, rules[0].Field)
	assert.Equal(t, PostSplitName, rules[0].Post)
	assert.Equal(t, FieldScreeningDate, rules[2].Field)
}

func TestRulePatterns(t *testing.T) {
	rules := Rules(Intake)
	byField := make(map[string]Rule, len(rules))
	for _, r := range rules {
		byField[r.Field] = r
	}

	m := byField[FieldFirstName].Pattern.FindStringSubmatch("First: Jane\n")
	require.Len(t, m, 2)
	assert.Equal(t, "Jane", m[1])

	m = byField[FieldPhone].Pattern.FindStringSubmatch("Preferred: Cell: (555) 123-4567\n")
	require.Len(t, m, 2)
	assert.Equal(t, "(555) 123-4567", m[1])

	assert.Nil(t, byField[FieldDOB].Pattern.FindStringSubmatch("DOB: 1/1/1980"),
		"single-digit date components are not the printed layout")
}

func TestSentinelFor(t *testing.T) {
	s := DefaultSentinels()
	assert.Equal(t, s.Text, Rule{Fallback: FallbackText}.SentinelFor(s))
	assert.Equal(t, s.Date, Rule{Fallback: FallbackDate}.SentinelFor(s))
	assert.Equal(t, s.Phone, Rule{Fallback: FallbackPhone}.SentinelFor(s))
}

func TestLoadRulesEmptyPath(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Len(t, rules[Intake], 7)
	assert.Len(t, rules[VisualField], 3)
}

func TestLoadRulesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `intake:
  - field: First Name
    pattern: 'Given:\s([A-Za-z]+)'
  - field: Date of Birth
    pattern: 'Born:\s(\d{2}/\d{2}/\d{4})'
    post: date
    fallback: date
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	require.Len(t, rules[Intake], 2)
	assert.Equal(t, FieldFirstName, rules[Intake][0].Field)
	assert.Equal(t, PostNone, rules[Intake][0].Post)
	assert.Equal(t, PostDate, rules[Intake][1].Post)
	assert.Equal(t, FallbackDate, rules[Intake][1].Fallback)

	// vf section absent, built-ins stay
	assert.Len(t, rules[VisualField], 3)
}

func TestLoadRulesInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "intake: ["},
		{"bad pattern", "intake:\n  - field: X\n    pattern: '('\n"},
		{"no capture group", "intake:\n  - field: X\n    pattern: 'abc'\n"},
		{"missing field", "intake:\n  - pattern: '(a)'\n"},
		{"unknown post", "intake:\n  - field: X\n    pattern: '(a)'\n    post: bogus\n"},
		{"unknown fallback", "intake:\n  - field: X\n    pattern: '(a)'\n    fallback: bogus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := LoadRules(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

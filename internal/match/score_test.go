package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/chartfile/internal/extract"
	"github.com/MeKo-Tech/chartfile/internal/forms"
)

func intakeRecord() extract.Record {
	return extract.Record{
		Form:      forms.Intake,
		FirstName: "jane",
		LastName:  "doe",
		DOB:       "01/01/1980",
		Sex:       "***",
		Phone:     "***",
		Address:   "***",
		Provider:  "***",
	}
}

func TestScoreIntakeNameAndDOB(t *testing.T) {
	rec := intakeRecord()
	rows := []CandidateRow{
		{Name: "Doe, Jane", DOB: "01/01/1980"},
	}

	d := Score(rec, rows)
	require.True(t, d.Matched, "name+DOB corroboration satisfies the first disjunct")
	assert.Equal(t, 0, d.RowIndex)
}

func TestScoreIntakeWeakCorroborationRejected(t *testing.T) {
	rec := intakeRecord()
	rec.Sex = "f"
	rec.Phone = "(555) 123-4567"

	// Sex and phone agree but neither name nor DOB does: rejected.
	rows := []CandidateRow{
		{Name: "Smith, John", DOB: "12/12/1999", Sex: "F", Phone: "(555) 123-4567"},
	}

	d := Score(rec, rows)
	assert.False(t, d.Matched)
	assert.Equal(t, -1, d.RowIndex)
}

func TestScoreIntakePartialCorroboration(t *testing.T) {
	rec := intakeRecord()
	rec.Sex = "f"
	rec.Address = "12 Main Street"

	// DOB agrees, name is corrupted; sex plus address corroborate.
	rows := []CandidateRow{
		{Name: "Smith, Jxne", DOB: "01/01/1980", Sex: "F", Address: "12 Main Street, Springfield"},
	}

	d := Score(rec, rows)
	assert.True(t, d.Matched)
}

func TestScoreVisualField(t *testing.T) {
	rec := extract.Record{
		Form:      forms.VisualField,
		FirstName: "jane",
		LastName:  "doe",
		DOB:       "01/01/1980",
	}

	accepted := []CandidateRow{{Name: "Doe, Jane", DOB: "01/01/1980"}}
	assert.True(t, Score(rec, accepted).Matched)

	// Either name half suffices, but DOB must agree.
	nameOnly := []CandidateRow{{Name: "Doe, Somebody", DOB: "02/02/1990"}}
	assert.False(t, Score(rec, nameOnly).Matched)

	dobOnly := []CandidateRow{{Name: "Smith, John", DOB: "01/01/1980"}}
	assert.False(t, Score(rec, dobOnly).Matched)
}

func TestScoreFirstMatchWins(t *testing.T) {
	rec := intakeRecord()
	rows := []CandidateRow{
		{Row: 0, Name: "Smith, John", DOB: "12/12/1999"},
		{Row: 1, Name: "Doe, Jane", DOB: "01/01/1980"},
		{Row: 2, Name: "Doe, Jane", DOB: "01/01/1980"},
	}

	// Rows are evaluated in table order; the first qualifying row is taken
	// and evaluation stops.
	d := Score(rec, rows)
	require.True(t, d.Matched)
	assert.Equal(t, 1, d.RowIndex)
}

func TestScoreKeepsSourceRowPosition(t *testing.T) {
	rec := intakeRecord()

	// The driver drops spacer rows before scoring, so candidate positions
	// can be sparse. The decision must carry the table position, not the
	// slice index.
	rows := []CandidateRow{
		{Row: 1, Name: "Smith, John", DOB: "12/12/1999"},
		{Row: 3, Name: "Doe, Jane", DOB: "01/01/1980"},
	}

	d := Score(rec, rows)
	require.True(t, d.Matched)
	assert.Equal(t, 3, d.RowIndex)
}

func TestScoreCaseInsensitive(t *testing.T) {
	rec := intakeRecord()
	rec.FirstName = "JANE"
	rec.LastName = "DOE"

	rows := []CandidateRow{{Name: "doe, jane", DOB: "01/01/1980"}}
	assert.True(t, Score(rec, rows).Matched)
}

func TestScoreEmptyTable(t *testing.T) {
	d := Score(intakeRecord(), nil)
	assert.False(t, d.Matched)
	assert.Equal(t, -1, d.RowIndex)
}

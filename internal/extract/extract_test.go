package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/chartfile/internal/forms"
)

const intakePageText = `Patient Information
First: Jane
Last: Doe
DOB: 03/14/1985
Sex: F
Preferred: Cell: (555) 123-4567
Address: 12 Main Street
Provider: Dr. Smith
`

func sentinels() forms.Sentinels {
	return forms.DefaultSentinels()
}

func TestExtractIntake(t *testing.T) {
	rec := Extract(intakePageText, forms.Intake, forms.Rules(forms.Intake), sentinels())

	assert.Equal(t, "Jane", rec.FirstName)
	assert.Equal(t, "Doe", rec.LastName)
	assert.Equal(t, "03/14/1985", rec.DOB)
	assert.Equal(t, "F", rec.Sex)
	assert.Equal(t, "(555) 123-4567", rec.Phone)
	assert.Equal(t, "12 Main Street", rec.Address)
	assert.Equal(t, "Dr. Smith", rec.Provider)
	assert.Equal(t, sentinels().Date, rec.DocumentDate, "document date comes from the footer, not the rules")
}

func TestExtractUnmatchedFieldsGetSentinels(t *testing.T) {
	s := sentinels()
	rec := Extract("completely unrelated text\n", forms.Intake, forms.Rules(forms.Intake), s)

	assert.Equal(t, s.Text, rec.FirstName)
	assert.Equal(t, s.Text, rec.LastName)
	assert.Equal(t, s.Date, rec.DOB)
	assert.Equal(t, s.Text, rec.Sex)
	assert.Equal(t, s.Phone, rec.Phone)
	assert.Equal(t, s.Text, rec.Address)
	assert.Equal(t, s.Text, rec.Provider)
}

func TestExtractLastMatchWins(t *testing.T) {
	// OCR noise can echo a label; the final occurrence sits closest to the
	// filled-in value.
	text := "First: Wrong\nsome noise\nFirst: Right\n"
	rec := Extract(text, forms.Intake, forms.Rules(forms.Intake), sentinels())
	assert.Equal(t, "Right", rec.FirstName)
}

func TestExtractSexNormalization(t *testing.T) {
	text := "Sex: fitl\n"
	rec := Extract(text, forms.Intake, forms.Rules(forms.Intake), sentinels())
	assert.Equal(t, "flll", rec.Sex)
	assert.NotContains(t, rec.Sex, "i")
	assert.NotContains(t, rec.Sex, "t")
}

func TestNormalizeSexIdempotent(t *testing.T) {
	once := normalizeSex("fitl")
	assert.Equal(t, once, normalizeSex(once))
}

func TestExtractImplausibleYear(t *testing.T) {
	s := sentinels()
	rec := Extract("DOB: 01/01/1080\n", forms.Intake, forms.Rules(forms.Intake), s)
	assert.Equal(t, s.Date, rec.DOB, "years before 1900 are recognition failures")

	rec = Extract("DOB: 01/01/1900\n", forms.Intake, forms.Rules(forms.Intake), s)
	assert.Equal(t, "01/01/1900", rec.DOB)
}

func TestExtractVisualField(t *testing.T) {
	text := "NAME: Doe, Jane   ID 12345\nDOB: 03-14-1985\nScreening DATE: 06-02-2024\n"
	rec := Extract(text, forms.VisualField, forms.Rules(forms.VisualField), sentinels())

	assert.Equal(t, "Jane", rec.FirstName)
	assert.Equal(t, "Doe", rec.LastName)
	assert.Equal(t, "03/14/1985", rec.DOB, "dashes are normalized to slashes")
	assert.Equal(t, "06/02/2024", rec.ScreeningDate)

	s := sentinels()
	assert.Equal(t, s.Text, rec.Sex, "intake-only fields hold the sentinel")
	assert.Equal(t, s.Text, rec.Phone)
}

func TestExtractVisualFieldNameSentinel(t *testing.T) {
	s := sentinels()
	rec := Extract("DOB: 03-14-1985\n", forms.VisualField, forms.Rules(forms.VisualField), s)
	assert.Equal(t, s.Text, rec.FirstName, "sentinel propagates to both name halves")
	assert.Equal(t, s.Text, rec.LastName)
}

func TestWithDocumentDate(t *testing.T) {
	s := sentinels()
	rec := Extract(intakePageText, forms.Intake, forms.Rules(forms.Intake), s)

	dated := rec.WithDocumentDate("04/01/2024", s)
	assert.Equal(t, "04/01/2024", dated.DocumentDate)

	// A footer date equal to the DOB is a misread, never a filing date.
	misread := rec.WithDocumentDate(rec.DOB, s)
	assert.Equal(t, s.Date, misread.DocumentDate)

	// The original record is unchanged.
	assert.Equal(t, s.Date, rec.DocumentDate)
}

func TestWithDocumentDateVisualField(t *testing.T) {
	s := sentinels()
	text := "NAME: Doe, Jane \nDOB: 03-14-1985\n"
	rec := Extract(text, forms.VisualField, forms.Rules(forms.VisualField), s)

	// The DOB guard is intake-only; vf pages have no dated footer to misread.
	dated := rec.WithDocumentDate("03/14/1985", s)
	assert.Equal(t, "03/14/1985", dated.DocumentDate)
}

func TestRecordFilingDate(t *testing.T) {
	rec := Record{Form: forms.Intake, DocumentDate: "04/01/2024", ScreeningDate: "05/05/2024"}
	assert.Equal(t, "04/01/2024", rec.FilingDate())

	rec.Form = forms.VisualField
	assert.Equal(t, "05/05/2024", rec.FilingDate())
}

func TestHeaderRowAligned(t *testing.T) {
	rec := Record{PageIndex: 2, FirstName: "Jane"}
	header := Header()
	row := rec.Row()
	require.Len(t, row, len(header))
	assert.Equal(t, "3", row[0], "pages are reported one-based")
	assert.Equal(t, "Jane", row[1])
}

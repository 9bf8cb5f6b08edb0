package extract

import (
	"strconv"

	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// Record is the structured output of one scanned page. Fields whose pattern
// never matched hold the form-specific sentinel. A Record is created once
// during extraction and never mutated afterwards.
type Record struct {
	Form      forms.FormType `json:"form"`
	PageIndex int            `json:"page_index"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"date_of_birth"`
	Sex       string `json:"sex"`
	Phone     string `json:"preferred_phone"`
	Address   string `json:"address"`
	Provider  string `json:"provider"`

	// ScreeningDate is only populated for visual field forms.
	ScreeningDate string `json:"screening_date"`

	// DocumentDate comes from the page footer, independent of the rule set.
	DocumentDate string `json:"document_date"`
}

// FilingDate returns the date a matched page is filed under: the footer
// document date for intake forms, the screening date for visual field forms.
func (r Record) FilingDate() string {
	if r.Form == forms.VisualField {
		return r.ScreeningDate
	}
	return r.DocumentDate
}

// Header returns the debug-export column names, in a fixed order matching Row.
func Header() []string {
	return []string{
		"Page",
		forms.FieldFirstName,
		forms.FieldLastName,
		forms.FieldDOB,
		forms.FieldSex,
		forms.FieldPhone,
		forms.FieldAddress,
		forms.FieldProvider,
		"Document Date",
		forms.FieldScreeningDate,
	}
}

// Row returns the record's field values in Header order. Pages are reported
// one-based so they line up with what a viewer shows.
func (r Record) Row() []string {
	return []string{
		strconv.Itoa(r.PageIndex + 1),
		r.FirstName,
		r.LastName,
		r.DOB,
		r.Sex,
		r.Phone,
		r.Address,
		r.Provider,
		r.DocumentDate,
		r.ScreeningDate,
	}
}

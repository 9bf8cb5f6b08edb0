package forms

import (
	"fmt"
)

// FormType identifies which scanned form layout a batch contains.
// It is fixed for an entire run and selects the extraction rules,
// the page crop regions, and the matching strategy.
type FormType string

const (
	// Intake is the patient intake form layout.
	Intake FormType = "intake"
	// VisualField is the visual field screening form layout.
	VisualField FormType = "vf"
)

// ParseFormType converts a string into a FormType.
func ParseFormType(s string) (FormType, error) {
	switch FormType(s) {
	case Intake:
		return Intake, nil
	case VisualField:
		return VisualField, nil
	default:
		return "", fmt.Errorf("unknown form type %q (expected %q or %q)", s, Intake, VisualField)
	}
}

// String returns the canonical string form used in filenames and ledger paths.
func (t FormType) String() string {
	return string(t)
}

// Region describes a horizontal band of a page as fractions of its height.
// Top and Bottom are in [0, 1] with Top < Bottom.
type Region struct {
	Top    float64
	Bottom float64
}

// FieldRegion returns the band of the page that holds the patient fields.
// Intake forms carry their fields in the top third of the page; visual field
// printouts pack everything into the top seventh.
func (t FormType) FieldRegion() Region {
	if t == VisualField {
		return Region{Top: 0, Bottom: 1.0 / 7.0}
	}
	return Region{Top: 0, Bottom: 1.0 / 3.0}
}

// FooterRegion returns the band holding the stamped document date, if the
// form has one. Only intake forms carry a dated footer.
func (t FormType) FooterRegion() (Region, bool) {
	if t == Intake {
		return Region{Top: 0.9, Bottom: 1.0}, true
	}
	return Region{}, false
}

// Sentinels are the placeholder values substituted when a field's pattern
// never matches. They distinguish "no data found" from real values.
type Sentinels struct {
	// Text is substituted for textual fields.
	Text string
	// Date is the null-date value for date fields.
	Date string
	// Phone is the null value for the phone field.
	Phone string
}

// DefaultSentinels returns the placeholder values used when the
// configuration does not override them.
func DefaultSentinels() Sentinels {
	return Sentinels{
		Text:  "***",
		Date:  "10/10/1903",
		Phone: "(102) 301-2309",
	}
}

package directory

import (
	"fmt"

	"github.com/MeKo-Tech/chartfile/internal/forms"
	"github.com/MeKo-Tech/chartfile/internal/match"
)

// Locators holds the element locators the WebDriver implementation clicks
// and reads. They track the remote application's DOM; when the vendor
// reshuffles the page these are the only values that need updating.
type Locators struct {
	PatientsTab    string
	AdvancedSearch string
	ResetSearch    string

	// SearchFields maps match.Key* search keys to their input locators.
	SearchFields map[string]string

	SearchFinished string
	ResultsCount   string
	ResultsTable   string
	// ResultRow is a format string taking the one-based row number.
	ResultRow string

	AlertClose     string
	DocumentsTab   string
	DocumentsTable string
	UploadButton   string
	// FileInput is a CSS selector; the upload input has no stable XPath.
	FileInput string

	// FolderTitles maps form types to the document folder titles.
	FolderTitles map[forms.FormType]string
}

// DefaultLocators returns the locator set for the current vendor layout.
func DefaultLocators() Locators {
	const searchPane = "/html/body/div[2]/div/div/pms-root/pms-patients/div/div/div/div/pms-search-patients"
	const patientPane = "/html/body/div[2]/div/div/pms-root/pms-patients/div/div/div/div/pms-patient"

	return Locators{
		PatientsTab:    "/html/body/div[1]/header/div/div[2]/ul/li[1]/a",
		AdvancedSearch: searchPane + "/div[1]/pms-patients-simple-search/form/div[2]/div/div[2]/button[3]",
		ResetSearch:    searchPane + "/div[1]/pms-patients-advanced-search/form/div[2]/div/button[2]",

		SearchFields: map[string]string{
			match.KeyLastName:  searchPane + "/div[1]/pms-patients-advanced-search/form/div[1]/div[2]/div[1]/div/input",
			match.KeyFirstName: searchPane + "/div[1]/pms-patients-advanced-search/form/div[1]/div[2]/div[2]/div/input",
			match.KeyDOB:       searchPane + "/div[1]/pms-patients-advanced-search/form/div[1]/div[2]/div[3]/div/ejs-datepicker/span/input",
			match.KeyPhone:     searchPane + "/div[1]/pms-patients-advanced-search/form/div[1]/div[3]/div[2]/div/ejs-maskedtextbox/span/input",
			match.KeyAddress:   searchPane + "/div[1]/pms-patients-advanced-search/form/div[1]/div[3]/div[1]/div/input",
		},

		SearchFinished: searchPane + "/div[2]/div/h4",
		ResultsCount:   searchPane + "/div[2]/div/ejs-grid/div[5]/div[4]/span[2]",
		ResultsTable:   searchPane + "/div[2]/div/ejs-grid/div[3]/div/table",
		ResultRow:      searchPane + "/div[2]/div/ejs-grid/div[3]/div/table/tbody/tr[%d]",

		AlertClose:     `button[data-test-id="alertHistoryModalCloseButton"]`,
		DocumentsTab:   patientPane + "/div[2]/div/pms-patient-navigation-bar/ejs-sidebar/div/a[20]/span",
		DocumentsTable: patientPane + "/div[2]/div/div/pms-patient-files/div/div[2]/div/div[2]/pms-folder-file-list/div/ejs-grid/div[4]/div/table",
		UploadButton:   patientPane + "/div[2]/div/div/pms-patient-files/div/div[2]/div/div[2]/pms-folder-file-list/div/ejs-grid/div[2]/rev-table-action-menu/div/div/div[1]/div/button[1]",
		FileInput:      `input[type='file']`,

		FolderTitles: map[forms.FormType]string{
			forms.Intake:      "IntakeForms",
			forms.VisualField: "Visual Fields",
		},
	}
}

// FolderLocator returns the XPath of the folder entry for a form type.
func (l Locators) FolderLocator(form forms.FormType) string {
	return fmt.Sprintf("//li[@title=%q]", l.FolderTitles[form])
}

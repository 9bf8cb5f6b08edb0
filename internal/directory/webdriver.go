package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/chartfile/internal/forms"
	"github.com/MeKo-Tech/chartfile/internal/match"
)

// webElementID is the W3C WebDriver element identifier key.
const webElementID = "element-6066-11e4-a52e-4f735466cecf"

// enterKey is the WebDriver key code submitted after typing a search value.
const enterKey = "\uE007"

// WebDriverConfig configures the connection to a WebDriver endpoint
// (chromedriver or a Selenium grid) fronting the remote directory.
type WebDriverConfig struct {
	// Endpoint is the WebDriver server base URL, e.g. http://localhost:9515.
	Endpoint string
	// AppURL is the remote directory application to navigate to. The
	// session is expected to be authenticated by the operator; session
	// management is outside this tool's scope.
	AppURL string

	Fetch    FetchPolicy
	Click    ClickPolicy
	Locators Locators
}

// WebDriver drives the remote patient directory through the W3C WebDriver
// wire protocol. It implements Driver.
type WebDriver struct {
	endpoint  string
	sessionID string
	client    *http.Client
	fetch     FetchPolicy
	click     ClickPolicy
	loc       Locators

	// advancedSearchOpen tracks the one-time switch into advanced search.
	advancedSearchOpen bool
}

// ConnectWebDriver opens a WebDriver session and navigates to the directory
// application.
func ConnectWebDriver(ctx context.Context, cfg WebDriverConfig) (*WebDriver, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("webdriver endpoint not configured")
	}
	d := &WebDriver{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		client:   &http.Client{},
		fetch:    cfg.Fetch,
		click:    cfg.Click,
		loc:      cfg.Locators,
	}
	if d.fetch.Attempts == 0 {
		d.fetch = DefaultFetchPolicy()
	}
	if d.click.Attempts == 0 {
		d.click = DefaultClickPolicy()
	}
	if d.loc.SearchFields == nil {
		d.loc = DefaultLocators()
	}

	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := d.do(ctx, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{},
	}, &resp); err != nil {
		return nil, fmt.Errorf("failed to create webdriver session: %w", err)
	}
	d.sessionID = resp.SessionID

	if cfg.AppURL != "" {
		if err := d.do(ctx, http.MethodPost, d.sessionPath("/url"), map[string]any{"url": cfg.AppURL}, nil); err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", cfg.AppURL, err)
		}
	}
	return d, nil
}

// Close ends the WebDriver session.
func (d *WebDriver) Close(ctx context.Context) error {
	return d.do(ctx, http.MethodDelete, d.sessionPath(""), nil, nil)
}

// ResetSearch clears the advanced search form, switching to the advanced
// pane first on the initial call.
func (d *WebDriver) ResetSearch(ctx context.Context) error {
	if err := d.ensureClick(ctx, "xpath", d.loc.PatientsTab); err != nil {
		return err
	}
	if !d.advancedSearchOpen {
		if err := d.ensureClick(ctx, "xpath", d.loc.AdvancedSearch); err != nil {
			return err
		}
		d.advancedSearchOpen = true
	}
	return d.ensureClick(ctx, "xpath", d.loc.ResetSearch)
}

// SubmitSearch types the value into the field for the given search key and
// submits it with Enter.
func (d *WebDriver) SubmitSearch(ctx context.Context, key, value string) error {
	xpath, ok := d.loc.SearchFields[key]
	if !ok {
		return fmt.Errorf("no search field locator for key %q", key)
	}
	if err := d.ensureClick(ctx, "xpath", xpath); err != nil {
		return err
	}
	elem, err := d.findElement(ctx, "xpath", xpath)
	if err != nil {
		return err
	}
	return d.sendKeys(ctx, elem, value+enterKey)
}

// ResultsTable waits for the search to finish and returns the candidate
// rows. A zero-result search returns an empty slice and no error.
func (d *WebDriver) ResultsTable(ctx context.Context) ([]match.CandidateRow, error) {
	if err := d.waitForText(ctx, d.loc.SearchFinished, "Search Results"); err != nil {
		return nil, err
	}

	count, err := d.resultsCount(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	tableHTML, err := d.outerHTML(ctx, d.loc.ResultsTable)
	if err != nil {
		return nil, err
	}
	rows, err := parseTable(tableHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results table: %w", err)
	}

	candidates := make([]match.CandidateRow, 0, len(rows))
	for i, row := range rows {
		// Spacer rows carry no columns to score, but they still occupy a
		// table position, so the surviving rows keep their own.
		if len(row) < 4 {
			continue
		}
		candidates = append(candidates, match.CandidateRow{
			Row:      i,
			Name:     cell(row, 2),
			DOB:      cell(row, 3),
			Sex:      cell(row, 4),
			Phone:    cell(row, 5),
			Address:  cell(row, 6),
			Provider: cell(row, 7),
		})
	}
	return candidates, nil
}

// OpenResult clicks the result row at the given zero-based table position.
func (d *WebDriver) OpenResult(ctx context.Context, rowIndex int) error {
	return d.ensureClick(ctx, "xpath", fmt.Sprintf(d.loc.ResultRow, rowIndex+1))
}

// OpenDocumentsFolder navigates the open patient record to the documents
// folder for the form type. A lingering alert modal is dismissed first if
// one is present.
func (d *WebDriver) OpenDocumentsFolder(ctx context.Context, form forms.FormType) error {
	// The alert only appears for flagged patients; ignore its absence.
	if elem, err := d.findElement(ctx, "css selector", d.loc.AlertClose); err == nil {
		_ = d.clickElement(ctx, elem)
	}
	if err := d.ensureClick(ctx, "xpath", d.loc.DocumentsTab); err != nil {
		return err
	}
	return d.ensureClick(ctx, "xpath", d.loc.FolderLocator(form))
}

// DocumentsTable lists the filenames already filed in the open folder. The
// grid briefly shows a folder placeholder row while loading, so the read
// retries until real rows appear.
func (d *WebDriver) DocumentsTable(ctx context.Context) ([]string, error) {
	var files []string
	err := d.fetch.Fetch(ctx, func(ctx context.Context) error {
		tableHTML, err := d.outerHTML(ctx, d.loc.DocumentsTable)
		if err != nil {
			return err
		}
		rows, err := parseTable(tableHTML)
		if err != nil {
			return err
		}
		if len(rows) > 0 && cell(rows[0], 1) == "Documents" {
			return fmt.Errorf("documents grid still loading")
		}
		files = files[:0]
		for _, row := range rows {
			if name := cell(row, 1); name != "" {
				files = append(files, name)
			}
		}
		return nil
	})
	return files, err
}

// Upload sends the local file through the folder's upload control.
func (d *WebDriver) Upload(ctx context.Context, localPath string) error {
	if err := d.ensureClick(ctx, "xpath", d.loc.UploadButton); err != nil {
		return err
	}
	var elem string
	err := d.fetch.Fetch(ctx, func(ctx context.Context) error {
		var findErr error
		elem, findErr = d.findElement(ctx, "css selector", d.loc.FileInput)
		return findErr
	})
	if err != nil {
		return err
	}
	return d.sendKeys(ctx, elem, localPath)
}

// resultsCount parses the result counter label, e.g. "(3 items)".
var countPattern = regexp.MustCompile(`\d+`)

func (d *WebDriver) resultsCount(ctx context.Context) (int, error) {
	var text string
	err := d.fetch.Fetch(ctx, func(ctx context.Context) error {
		elem, findErr := d.findElement(ctx, "xpath", d.loc.ResultsCount)
		if findErr != nil {
			return findErr
		}
		var textErr error
		text, textErr = d.elementText(ctx, elem)
		return textErr
	})
	if err != nil {
		return 0, err
	}
	digits := countPattern.FindString(text)
	if digits == "" {
		return 0, nil
	}
	return strconv.Atoi(digits)
}

// waitForText retries until the element's text contains want.
func (d *WebDriver) waitForText(ctx context.Context, xpath, want string) error {
	return d.fetch.Fetch(ctx, func(ctx context.Context) error {
		elem, err := d.findElement(ctx, "xpath", xpath)
		if err != nil {
			return err
		}
		text, err := d.elementText(ctx, elem)
		if err != nil {
			return err
		}
		if !strings.Contains(text, want) {
			return fmt.Errorf("element text %q does not contain %q yet", text, want)
		}
		return nil
	})
}

// ensureClick locates the element and clicks it under the click policy,
// riding out transient interception by overlapping elements.
func (d *WebDriver) ensureClick(ctx context.Context, using, value string) error {
	return d.click.Click(ctx, func(ctx context.Context) error {
		elem, err := d.findElement(ctx, using, value)
		if err != nil {
			return err
		}
		return d.clickElement(ctx, elem)
	})
}

func (d *WebDriver) outerHTML(ctx context.Context, xpath string) (string, error) {
	var html string
	err := d.fetch.Fetch(ctx, func(ctx context.Context) error {
		elem, findErr := d.findElement(ctx, "xpath", xpath)
		if findErr != nil {
			return findErr
		}
		var propErr error
		html, propErr = d.elementProperty(ctx, elem, "outerHTML")
		return propErr
	})
	return html, err
}

// --- WebDriver wire protocol primitives ---

func (d *WebDriver) findElement(ctx context.Context, using, value string) (string, error) {
	var resp map[string]string
	err := d.do(ctx, http.MethodPost, d.sessionPath("/element"), map[string]string{
		"using": using,
		"value": value,
	}, &resp)
	if err != nil {
		return "", err
	}
	id, ok := resp[webElementID]
	if !ok {
		return "", fmt.Errorf("no element reference in response")
	}
	return id, nil
}

func (d *WebDriver) clickElement(ctx context.Context, elem string) error {
	return d.do(ctx, http.MethodPost, d.sessionPath("/element/"+elem+"/click"), map[string]any{}, nil)
}

func (d *WebDriver) sendKeys(ctx context.Context, elem, text string) error {
	return d.do(ctx, http.MethodPost, d.sessionPath("/element/"+elem+"/value"), map[string]string{"text": text}, nil)
}

func (d *WebDriver) elementText(ctx context.Context, elem string) (string, error) {
	var text string
	err := d.do(ctx, http.MethodGet, d.sessionPath("/element/"+elem+"/text"), nil, &text)
	return text, err
}

func (d *WebDriver) elementProperty(ctx context.Context, elem, name string) (string, error) {
	var value string
	err := d.do(ctx, http.MethodGet, d.sessionPath("/element/"+elem+"/property/"+name), nil, &value)
	return value, err
}

func (d *WebDriver) sessionPath(suffix string) string {
	return "/session/" + d.sessionID + suffix
}

// do issues one wire-protocol request and decodes the "value" envelope.
func (d *WebDriver) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.endpoint+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var failure struct {
			Value struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			} `json:"value"`
		}
		if json.Unmarshal(data, &failure) == nil && failure.Value.Error != "" {
			return fmt.Errorf("webdriver %s: %s", failure.Value.Error, failure.Value.Message)
		}
		return fmt.Errorf("webdriver request failed: %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	envelope := struct {
		Value any `json:"value"`
	}{Value: out}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode webdriver response: %w", err)
	}
	return nil
}

package directory

import (
	"strings"

	"golang.org/x/net/html"
)

// parseTable extracts the cell text of an HTML table, one slice per <tr>.
// Nested markup inside a cell is flattened to its text content, matching
// what the remote grid renders to the user.
func parseTable(tableHTML string) ([][]string, error) {
	doc, err := html.Parse(strings.NewReader(tableHTML))
	if err != nil {
		return nil, err
	}

	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, rowCells(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows, nil
}

// rowCells collects the text of every td/th directly under a row.
func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// cell returns the value at column idx, or empty when the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

package textproc

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlFragment = regexp.MustCompile(`(?i)<\s*(?:table|tr|td|th|div|span|p|br|body|html)\b`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// FlattenHTML reduces HTML fragments embedded in extracted text to plain
// lines. OCR backends that emit markdown keep complex statement tables as raw
// HTML; pattern matching needs label and value on one readable line. Table
// rows become space-joined cell text, one row per line. Text without HTML
// passes through untouched.
func FlattenHTML(input string) string {
	if !htmlFragment.MatchString(input) {
		return input
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return input
	}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th").Map(func(_ int, cell *goquery.Selection) string {
			return strings.TrimSpace(cell.Text())
		})
		row.SetText(strings.Join(cells, " ") + "\n")
	})
	doc.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.SetText("\n")
	})

	flattened := doc.Text()
	// Collapse runs of blank lines left behind by removed markup.
	flattened = blankLines.ReplaceAllString(flattened, "\n\n")
	return strings.TrimSpace(flattened)
}

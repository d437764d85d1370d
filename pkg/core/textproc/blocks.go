package textproc

import "regexp"

const monthPat = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|` +
	`jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// Period label of the form "Jan-Mar 2024" or "January to March 2023".
var periodLabel = regexp.MustCompile(`(?i)\b` + monthPat + `\s*(?:[-–]|to)\s*` + monthPat + `\s+\d{4}\b`)

// QuarterBlock is a slice of OCR text attributed to one reporting period.
type QuarterBlock struct {
	Period string
	Text   string
}

// SplitQuarterBlocks cuts the text into per-quarter sections at each period
// label. Statements that list the current quarter followed by its
// year-over-year comparison produce two blocks in document order; text with
// fewer than two labels comes back as a single block covering everything.
func SplitQuarterBlocks(text string) []QuarterBlock {
	locs := periodLabel.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		period := ""
		if len(locs) == 1 {
			period = text[locs[0][0]:locs[0][1]]
		}
		return []QuarterBlock{{Period: period, Text: text}}
	}

	blocks := make([]QuarterBlock, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, QuarterBlock{
			Period: text[loc[0]:loc[1]],
			Text:   text[loc[0]:end],
		})
	}
	return blocks
}

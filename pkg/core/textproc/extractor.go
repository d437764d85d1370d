package textproc

import (
	"finextract/pkg/models"
)

// Extract applies the pattern battery to the full text and returns one value
// (or nil) per field. Each pattern takes its first candidate match that is
// not disqualified by the pattern's reject rule. A missing match is not an
// error; the caller decides whether a nil field is acceptable.
func Extract(text string) models.FieldMap {
	out := make(models.FieldMap, len(Patterns))
	for _, p := range Patterns {
		out[p.Name] = nil
		for _, m := range p.Pattern.FindAllStringSubmatch(text, -1) {
			if p.Group >= len(m) || m[p.Group] == "" {
				continue
			}
			if p.Reject != nil && p.Reject.MatchString(m[0]) {
				continue
			}
			captured := m[p.Group]
			out[p.Name] = &captured
			break
		}
	}
	return out
}

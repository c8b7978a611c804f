package model

import "strings"

// ExamLevels lists the accepted JLPT level codes, hardest first.
var ExamLevels = []string{"N1", "N2", "N3", "N4", "N5"}

// NormalizeLevel upper-cases and trims a level code and reports whether it
// belongs to ExamLevels.
func NormalizeLevel(raw string) (string, bool) {
	lvl := strings.ToUpper(strings.TrimSpace(raw))
	for _, l := range ExamLevels {
		if l == lvl {
			return lvl, true
		}
	}
	return lvl, false
}

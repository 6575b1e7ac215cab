package validate

import "github.com/andst/staffboard/internal/model"

// SanitizeName cleans a staff name for safe storage. It is the same
// normalisation applied when rows are decoded.
func SanitizeName(name string) string {
	return model.CanonicalName(name)
}

// SanitizeCell neutralises a value bound for a spreadsheet cell or CSV file
// so it cannot be interpreted as a formula.
func SanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

package extractor

import "rpaetl/internal/fiscal"

// ExtractAccessKey returns the first 44-digit run that passes key validation,
// formatted in groups of four. Earlier invalid runs are skipped.
func ExtractAccessKey(text string) *string {
	for _, candidate := range accessKeyPattern.FindAllString(text, -1) {
		if res := fiscal.ValidateAccessKey(candidate); res.Valid {
			return &res.Formatted
		}
	}
	return nil
}

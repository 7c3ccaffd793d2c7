package extractor

import "regexp"

// ExtractDates returns the emission date and the competence period. The
// emission date falls back to the first standalone date of the text; the
// competence has no fallback and is nil when absent.
func ExtractDates(text string) (emission, competence *string) {
	if v, ok := firstSubmatch(EmissionPatterns, text); ok {
		emission = &v
	} else if m := EmissionFallback.FindStringSubmatch(text); m != nil {
		emission = &m[1]
	}
	if v, ok := firstSubmatch(CompetencePatterns, text); ok {
		competence = &v
	}
	return emission, competence
}

func firstSubmatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

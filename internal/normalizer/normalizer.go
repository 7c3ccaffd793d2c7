// Package normalizer canonicalizes raw text extracted from fiscal documents
// before any semantic extraction runs on it.
package normalizer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"rpaetl/internal/domain"
)

var invisibleReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\u202f", " ",
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u2060", "",
	"\ufeff", "",
	"\u00ad", "",
	"\r\n", "\n",
	"\r", "\n",
)

var (
	reHorizontalSpace = regexp.MustCompile(`[ \t\f\v]+`)
	reBlankLines      = regexp.MustCompile(`\n{2,}`)
	reSplitDigits     = regexp.MustCompile(`(\d)\s+(\d)`)
	reDateTime        = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})(\d{2}:\d{2}(?::\d{2})?)`)
	reDecimalComma    = regexp.MustCompile(`(\d)\s*,\s*(\d{2})`)
	reThousandsDot    = regexp.MustCompile(`(\d)\s*\.\s*(\d{3})\b`)
	reHasDigit        = regexp.MustCompile(`\d`)
)

// ShortTokens are lines kept even though they are shorter than three characters.
var ShortTokens = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true, "DF": true,
	"ES": true, "GO": true, "MA": true, "MT": true, "MS": true, "MG": true, "PA": true,
	"PB": true, "PR": true, "PE": true, "PI": true, "RJ": true, "RN": true, "RS": true,
	"RO": true, "RR": true, "SC": true, "SP": true, "SE": true, "TO": true,
	"NF": true, "RG": true, "IE": true, "IM": true, "CPF": true,
}

// Normalize returns the canonical form of text. It fails with domain.ErrNotText
// when text is not valid UTF-8 or carries NUL bytes.
func Normalize(text string) (string, error) {
	if !utf8.ValidString(text) || strings.ContainsRune(text, 0) {
		return "", fmt.Errorf("normalizer.Normalize: %w", domain.ErrNotText)
	}
	// A pass changes its input again only when dropping or deduplicating lines
	// joined two digit runs. Every such pass removes characters, so the loop ends.
	out := pass(text)
	for {
		next := pass(out)
		if next == out {
			return out, nil
		}
		out = next
	}
}

// NormalizeBytes is Normalize for raw bytes.
func NormalizeBytes(b []byte) (string, error) {
	return Normalize(string(b))
}

func pass(text string) string {
	text = invisibleReplacer.Replace(text)
	text = strings.Map(dropControl, text)

	text = reHorizontalSpace.ReplaceAllString(text, " ")
	text = reBlankLines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	text = replaceUntilStable(reSplitDigits, text, "$1$2")
	text = reDateTime.ReplaceAllString(text, "$1 $2")

	text = reDecimalComma.ReplaceAllString(text, "$1,$2")
	text = replaceUntilStable(reThousandsDot, text, "$1$2")

	lines := dropNoiseLines(strings.Split(text, "\n"))
	return strings.Join(dedupe(lines), "\n")
}

func dropControl(r rune) rune {
	if r == '\n' || r == '\t' {
		return r
	}
	if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
		return -1
	}
	return r
}

// replaceUntilStable reapplies re because consecutive matches overlap
// ("1 2 3" needs two rounds).
func replaceUntilStable(re *regexp.Regexp, text, repl string) string {
	for {
		next := re.ReplaceAllString(text, repl)
		if next == text {
			return next
		}
		text = next
	}
}

func dropNoiseLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ShortTokens[strings.ToUpper(ln)] {
			out = append(out, ln)
			continue
		}
		if utf8.RuneCountInString(ln) < 3 && !reHasDigit.MatchString(ln) {
			continue
		}
		out = append(out, ln)
	}
	return out
}

func dedupe(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if _, ok := seen[ln]; ok {
			continue
		}
		seen[ln] = struct{}{}
		out = append(out, ln)
	}
	return out
}

// Package segmenter partitions normalized invoice text into labeled regions
// using ordered marker detection.
package segmenter

import (
	"regexp"
	"sort"
	"strings"

	"rpaetl/internal/domain"
)

// Marker is a caption that opens a block.
type Marker struct {
	Label   domain.BlockLabel
	Pattern *regexp.Regexp
}

// Markers are evaluated in this order; when two markers start at the same
// position the earlier entry wins.
var Markers = []Marker{
	{domain.BlockIssuer, regexp.MustCompile(`(?i)PRESTADOR\s+(?:DO|DE)?\s*SERVI[CÇ]O`)},
	{domain.BlockIssuer, regexp.MustCompile(`(?i)DADOS\s+DO\s+PRESTADOR`)},
	{domain.BlockIssuer, regexp.MustCompile(`(?i)EMITENTE`)},
	{domain.BlockRecipient, regexp.MustCompile(`(?i)TOMADOR\s+(?:DO|DE)?\s*SERVI[CÇ]O`)},
	{domain.BlockRecipient, regexp.MustCompile(`(?i)DADOS\s+DO\s+TOMADOR`)},
	{domain.BlockRecipient, regexp.MustCompile(`(?i)DESTINAT[AÁ]RIO`)},
	{domain.BlockItems, regexp.MustCompile(`(?i)DISCRIMINA[CÇ][AÃ]O\s+(?:DOS|DE)?\s*(?:SERVI[CÇ]OS|PRODUTOS)`)},
	{domain.BlockItems, regexp.MustCompile(`(?i)DESCRI[CÇ][AÃ]O\s+DOS\s+SERVI[CÇ]OS`)},
	{domain.BlockFinancials, regexp.MustCompile(`(?i)VALOR\s+TOTAL`)},
	{domain.BlockFinancials, regexp.MustCompile(`(?i)TOTAL\s+GERAL`)},
	{domain.BlockFinancials, regexp.MustCompile(`(?i)TRIBUTA[CÇ][AÃ]O`)},
	{domain.BlockFinancials, regexp.MustCompile(`(?i)TOTAL\s+DO\s+SERVI[CÇ]O`)},
}

// Span is a contiguous byte range of the segmented text.
type Span struct {
	Label domain.BlockLabel `json:"label"`
	Start int               `json:"start"`
	End   int               `json:"end"`
}

// Blocks is the result of Segment. Every label in domain.BlockLabels has an
// entry; labels without markers map to "".
type Blocks struct {
	Spans   []Span                       `json:"spans"`
	Content map[domain.BlockLabel]string `json:"content"`
}

// Get returns the content of a label.
func (b Blocks) Get(label domain.BlockLabel) string {
	return b.Content[label]
}

type occurrence struct {
	start, end int
	order      int
	label      domain.BlockLabel
}

// Segment never fails. Text without markers is returned entirely as HEADER.
func Segment(text string) Blocks {
	blocks := Blocks{Content: make(map[domain.BlockLabel]string, len(domain.BlockLabels))}
	for _, label := range domain.BlockLabels {
		blocks.Content[label] = ""
	}

	found := findOccurrences(text)
	if len(found) == 0 {
		blocks.Content[domain.BlockHeader] = text
		if text != "" {
			blocks.Spans = []Span{{Label: domain.BlockHeader, Start: 0, End: len(text)}}
		}
		return blocks
	}

	if found[0].start > 0 {
		blocks.Spans = append(blocks.Spans, Span{Label: domain.BlockHeader, Start: 0, End: found[0].start})
		blocks.Content[domain.BlockHeader] = text[:found[0].start]
	}

	parts := make(map[domain.BlockLabel][]string)
	for i, occ := range found {
		end := len(text)
		if i+1 < len(found) {
			end = found[i+1].start
		}
		blocks.Spans = append(blocks.Spans, Span{Label: occ.label, Start: occ.start, End: end})
		parts[occ.label] = append(parts[occ.label], text[occ.start:end])
	}
	for label, p := range parts {
		blocks.Content[label] = strings.Join(p, "\n")
	}
	return blocks
}

// findOccurrences returns marker matches sorted by position, without
// duplicates at the same position and without matches nested in a previous one.
func findOccurrences(text string) []occurrence {
	var all []occurrence
	for order, m := range Markers {
		for _, loc := range m.Pattern.FindAllStringIndex(text, -1) {
			all = append(all, occurrence{start: loc[0], end: loc[1], order: order, label: m.Label})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].order < all[j].order
	})

	kept := all[:0]
	lastEnd := -1
	for _, occ := range all {
		if occ.start < lastEnd {
			continue
		}
		kept = append(kept, occ)
		lastEnd = occ.end
	}
	return kept
}

// Package fiscal implements the checksum and plausibility algorithms for
// Brazilian fiscal identifiers and monetary amounts. Every validator is a pure
// function returning a structured result; none of them panics or returns an error.
package fiscal

import (
	"fmt"
	"strings"
)

// Establishment distinguishes head offices from branches by the CNPJ order number.
type Establishment string

const (
	HeadOffice Establishment = "matriz"
	Branch     Establishment = "filial"
)

// No registry lookup is done, so a checksum-valid CNPJ is never fully certain.
const cnpjValidConfidence = 95

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// CNPJResult is the outcome of ValidateCNPJ.
type CNPJResult struct {
	Valid         bool          `json:"valid"`
	Reason        string        `json:"reason,omitempty"`
	Confidence    int           `json:"confidence"`
	Digits        string        `json:"digits,omitempty"`
	Formatted     string        `json:"formatted,omitempty"`
	Establishment Establishment `json:"establishment,omitempty"`
}

// ValidateCNPJ checks length, repeated-digit pattern and both check digits.
func ValidateCNPJ(value string) CNPJResult {
	digits := OnlyDigits(value)

	if len(digits) != 14 {
		return CNPJResult{
			Reason:     fmt.Sprintf("CNPJ deve ter 14 dígitos (recebido %d)", len(digits)),
			Confidence: 100,
		}
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return CNPJResult{Reason: "CNPJ com todos dígitos repetidos", Confidence: 100}
	}

	if dv1 := mod11Digit(digits[:12], cnpjWeights1); int(digits[12]-'0') != dv1 {
		return CNPJResult{
			Reason:     fmt.Sprintf("dígito verificador 1 incorreto (esperado %d)", dv1),
			Confidence: 99,
		}
	}
	if dv2 := mod11Digit(digits[:13], cnpjWeights2); int(digits[13]-'0') != dv2 {
		return CNPJResult{
			Reason:     fmt.Sprintf("dígito verificador 2 incorreto (esperado %d)", dv2),
			Confidence: 99,
		}
	}

	establishment := Branch
	if digits[8:12] == "0001" {
		establishment = HeadOffice
	}
	return CNPJResult{
		Valid:         true,
		Confidence:    cnpjValidConfidence,
		Digits:        digits,
		Formatted:     FormatCNPJ(digits),
		Establishment: establishment,
	}
}

// FormatCNPJ renders 14 digits as XX.XXX.XXX/XXXX-XX. Other inputs are returned unchanged.
func FormatCNPJ(digits string) string {
	if len(digits) != 14 {
		return digits
	}
	return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:]
}

// OnlyDigits strips every non ASCII digit.
func OnlyDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if c := value[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// mod11Digit computes a check digit: 0 when the remainder is below 2, else 11 - remainder.
func mod11Digit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

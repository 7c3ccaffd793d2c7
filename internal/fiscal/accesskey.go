package fiscal

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	accessKeyLength          = 44
	accessKeyValidConfidence = 90
	minKeyYear               = 2008
	maxKeyYear               = 2030
)

// IBGE state codes accepted in the first two positions of an access key.
var stateCodes = map[string]bool{
	"11": true, "12": true, "13": true, "14": true, "15": true, "16": true, "17": true,
	"21": true, "22": true, "23": true, "24": true, "25": true, "26": true, "27": true, "28": true, "29": true,
	"31": true, "32": true, "33": true, "35": true,
	"41": true, "42": true, "43": true,
	"50": true, "51": true, "52": true, "53": true,
}

// Document models an access key may carry.
var documentModels = map[string]string{
	"55": "NF-e",
	"65": "NFC-e",
}

var accessKeyWeights = func() []int {
	cycle := []int{4, 3, 2, 9, 8, 7, 6, 5}
	w := make([]int, accessKeyLength-1)
	for i := range w {
		w[i] = cycle[i%len(cycle)]
	}
	return w
}()

// AccessKeyResult is the outcome of ValidateAccessKey.
type AccessKeyResult struct {
	Valid      bool   `json:"valid"`
	Reason     string `json:"reason,omitempty"`
	Confidence int    `json:"confidence"`
	Digits     string `json:"digits,omitempty"`
	Formatted  string `json:"formatted,omitempty"`
	StateCode  string `json:"state_code,omitempty"`
	YearMonth  string `json:"year_month,omitempty"`
	IssuerCNPJ string `json:"issuer_cnpj,omitempty"`
	Model      string `json:"model,omitempty"`
}

// ValidateAccessKey checks the structure and check digit of a 44-digit NF-e/NFC-e key.
func ValidateAccessKey(value string) AccessKeyResult {
	digits := OnlyDigits(value)
	if len(digits) != accessKeyLength {
		return AccessKeyResult{
			Reason:     fmt.Sprintf("chave deve ter 44 dígitos (recebido %d)", len(digits)),
			Confidence: 100,
		}
	}

	state := digits[0:2]
	if !stateCodes[state] {
		return AccessKeyResult{Reason: "código UF inválido: " + state, Confidence: 100}
	}

	yy, _ := strconv.Atoi(digits[2:4])
	month, _ := strconv.Atoi(digits[4:6])
	year := 2000 + yy
	if yy < 8 {
		year = 2100 + yy
	}
	if year < minKeyYear || year > maxKeyYear {
		return AccessKeyResult{Reason: fmt.Sprintf("ano implausível: %d", year), Confidence: 95}
	}
	if month < 1 || month > 12 {
		return AccessKeyResult{Reason: fmt.Sprintf("mês inválido: %02d", month), Confidence: 100}
	}

	model, ok := documentModels[digits[20:22]]
	if !ok {
		return AccessKeyResult{
			Reason:     fmt.Sprintf("modelo inválido: %s (esperado 55=NF-e ou 65=NFC-e)", digits[20:22]),
			Confidence: 95,
		}
	}

	cnpj := ValidateCNPJ(digits[6:20])
	if !cnpj.Valid {
		return AccessKeyResult{Reason: "CNPJ inválido na chave: " + cnpj.Reason, Confidence: 99}
	}

	dv := mod11Digit(digits[:43], accessKeyWeights)
	if got := int(digits[43] - '0'); got != dv {
		return AccessKeyResult{
			Reason:     fmt.Sprintf("dígito verificador incorreto (esperado %d, recebido %d)", dv, got),
			Confidence: 99,
		}
	}

	return AccessKeyResult{
		Valid:      true,
		Confidence: accessKeyValidConfidence,
		Digits:     digits,
		Formatted:  FormatAccessKey(digits),
		StateCode:  state,
		YearMonth:  fmt.Sprintf("%d-%02d", year, month),
		IssuerCNPJ: cnpj.Formatted,
		Model:      model,
	}
}

// FormatAccessKey splits a 44-digit key into eleven space-separated groups of four.
func FormatAccessKey(digits string) string {
	if len(digits) != accessKeyLength {
		return digits
	}
	groups := make([]string, 0, accessKeyLength/4)
	for i := 0; i < accessKeyLength; i += 4 {
		groups = append(groups, digits[i:i+4])
	}
	return strings.Join(groups, " ")
}

package fiscal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const moneyValidConfidence = 95

// MaxPlausibleAmount is the ceiling above which an invoice amount is rejected.
var MaxPlausibleAmount = decimal.NewFromInt(1_000_000_000)

var plainNumber = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// MoneyOptions restricts the accepted currencies of ValidateMoney.
type MoneyOptions struct {
	// FiscalCurrency, when set, is the only currency accepted and the
	// default when the text carries no currency marker.
	FiscalCurrency string
	// ExpectedCurrency, when set, must equal the detected currency.
	ExpectedCurrency string
	// MaxAmount overrides MaxPlausibleAmount when non-zero.
	MaxAmount decimal.Decimal
}

// FiscalBRL accepts only Brazilian reais.
var FiscalBRL = MoneyOptions{FiscalCurrency: BRL}

// MoneyResult is the outcome of ValidateMoney.
type MoneyResult struct {
	Valid            bool            `json:"valid"`
	Reason           string          `json:"reason,omitempty"`
	Confidence       int             `json:"confidence"`
	Value            decimal.Decimal `json:"value"`
	Currency         string          `json:"currency,omitempty"`
	DetectedCurrency string          `json:"detected_currency,omitempty"`
	Formatted        string          `json:"formatted,omitempty"`
	Fiscal           bool            `json:"fiscal"`
}

// ValidateMoney detects the currency of value, resolves its separators by the
// currency's convention and parses it as an exact decimal.
func ValidateMoney(value string, opts MoneyOptions) MoneyResult {
	upper := strings.ToUpper(strings.TrimSpace(value))

	detected := DetectCurrency(upper)
	if detected == "" {
		detected = BRL
		if opts.FiscalCurrency != "" {
			detected = opts.FiscalCurrency
		}
	}

	if opts.FiscalCurrency != "" && detected != opts.FiscalCurrency {
		return MoneyResult{
			Reason:           fmt.Sprintf("moeda %s não aceita em contexto fiscal %s", detected, opts.FiscalCurrency),
			Confidence:       100,
			DetectedCurrency: detected,
		}
	}
	if opts.ExpectedCurrency != "" && detected != opts.ExpectedCurrency {
		return MoneyResult{
			Reason:           fmt.Sprintf("moeda %s diferente da esperada %s", detected, opts.ExpectedCurrency),
			Confidence:       100,
			DetectedCurrency: detected,
		}
	}

	currency := Currencies[detected]
	number := localizeSeparators(stripCurrency(upper), currency)

	amount, err := decimal.NewFromString(number)
	if err != nil || !plainNumber.MatchString(number) {
		return MoneyResult{
			Reason:           fmt.Sprintf("formato inválido: %q não é um número", value),
			Confidence:       100,
			DetectedCurrency: detected,
		}
	}

	if amount.IsNegative() {
		return MoneyResult{Reason: "valor negativo", Confidence: 100, DetectedCurrency: detected}
	}
	ceiling := MaxPlausibleAmount
	if !opts.MaxAmount.IsZero() {
		ceiling = opts.MaxAmount
	}
	if amount.GreaterThan(ceiling) {
		return MoneyResult{
			Reason:           "valor implausível: acima de " + FormatMoney(ceiling, currency),
			Confidence:       90,
			DetectedCurrency: detected,
		}
	}
	if !amount.Equal(amount.Round(2)) {
		return MoneyResult{Reason: "mais de 2 casas decimais", Confidence: 80, DetectedCurrency: detected}
	}

	return MoneyResult{
		Valid:            true,
		Confidence:       moneyValidConfidence,
		Value:            amount,
		Currency:         detected,
		DetectedCurrency: detected,
		Formatted:        FormatMoney(amount, currency),
		Fiscal:           detected == BRL,
	}
}

// DetectCurrency returns the ISO code of the first currency marker found, or "".
func DetectCurrency(text string) string {
	upper := strings.ToUpper(text)
	for _, m := range currencyMarkers {
		if strings.Contains(upper, m.token) {
			return m.code
		}
	}
	return ""
}

// FormatMoney renders amount in the canonical form of currency, e.g. "R$ 1.234,56".
func FormatMoney(amount decimal.Decimal, currency Currency) string {
	places := currency.MinorUnits
	if !amount.Equal(amount.Round(places)) {
		places = 2
	}
	intPart, frac, _ := strings.Cut(amount.Abs().StringFixed(places), ".")

	var b strings.Builder
	b.WriteString(currency.Display)
	b.WriteByte(' ')
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(currency.ThousandsSep)
		}
		b.WriteByte(intPart[i])
	}
	if frac != "" {
		b.WriteByte(currency.DecimalSep)
		b.WriteString(frac)
	}
	return b.String()
}

func stripCurrency(upper string) string {
	for _, m := range currencyMarkers {
		upper = strings.ReplaceAll(upper, m.token, "")
	}
	return strings.Join(strings.Fields(upper), "")
}

func localizeSeparators(number string, currency Currency) string {
	if currency.DecimalSep == ',' {
		if strings.Contains(number, ",") && strings.Contains(number, ".") {
			number = strings.ReplaceAll(number, ".", "")
		}
		return strings.ReplaceAll(number, ",", ".")
	}
	return strings.ReplaceAll(number, ",", "")
}

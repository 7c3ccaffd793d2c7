package fiscal

import "sort"

// Currency describes how amounts of one currency are written.
type Currency struct {
	Code         string
	Display      string   // prefix used in canonical output
	Symbols      []string // markers that identify the currency inside free text
	DecimalSep   byte
	ThousandsSep byte
	MinorUnits   int32
}

// BRL is the fiscal currency of Brazilian invoices.
const BRL = "BRL"

// Currencies indexes the supported currencies by ISO code. Adding a currency
// only needs a new entry here.
var Currencies = map[string]Currency{
	"BRL": {Code: "BRL", Display: "R$", Symbols: []string{"R$"}, DecimalSep: ',', ThousandsSep: '.', MinorUnits: 2},
	"USD": {Code: "USD", Display: "$", Symbols: []string{"US$", "$"}, DecimalSep: '.', ThousandsSep: ',', MinorUnits: 2},
	"EUR": {Code: "EUR", Display: "€", Symbols: []string{"€"}, DecimalSep: ',', ThousandsSep: '.', MinorUnits: 2},
	"GBP": {Code: "GBP", Display: "£", Symbols: []string{"£"}, DecimalSep: '.', ThousandsSep: ',', MinorUnits: 2},
	"JPY": {Code: "JPY", Display: "¥", Symbols: []string{"¥"}, DecimalSep: '.', ThousandsSep: ',', MinorUnits: 0},
}

type currencyMarker struct {
	token string
	code  string
}

// currencyMarkers lists every code and symbol, longest first, so that "R$"
// and "US$" win over a bare "$".
var currencyMarkers = func() []currencyMarker {
	var markers []currencyMarker
	for code, c := range Currencies {
		markers = append(markers, currencyMarker{token: code, code: code})
		for _, s := range c.Symbols {
			markers = append(markers, currencyMarker{token: s, code: code})
		}
	}
	sort.SliceStable(markers, func(i, j int) bool {
		if len(markers[i].token) != len(markers[j].token) {
			return len(markers[i].token) > len(markers[j].token)
		}
		return markers[i].token < markers[j].token
	})
	return markers
}()

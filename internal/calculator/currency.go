package calculator

import "strings"

// zeroDecimalCurrencies have no minor unit in everyday use.
var zeroDecimalCurrencies = map[string]bool{
	"VND": true,
	"JPY": true,
	"KRW": true,
	"CLP": true,
	"ISK": true,
	"UGX": true,
	"XAF": true,
	"XOF": true,
}

// MinorUnits returns how many decimal digits amounts in currency are rounded to.
func MinorUnits(currency string) int32 {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return 0
	}
	return 2
}

package currency

import "maps"

// FallbackProvider names the synthesized data source in degraded responses.
const FallbackProvider = "fallback"

// fallbackBase is the currency every entry in fallbackRates is quoted against.
const fallbackBase = "USD"

// fallbackRates are approximate, illustrative USD-based rates. They keep rate
// displays populated when the provider has never answered; they are not
// market data.
var fallbackRates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.5,
	"AUD": 1.52,
	"CAD": 1.36,
	"CHF": 0.88,
	"CNY": 7.24,
	"HKD": 7.82,
	"NZD": 1.64,
	"SEK": 10.45,
	"NOK": 10.6,
	"DKK": 6.87,
	"ISK": 137.5,
	"PLN": 3.98,
	"CZK": 22.8,
	"HUF": 356,
	"RON": 4.58,
	"BGN": 1.8,
	"RSD": 107.8,
	"UAH": 41.2,
	"RUB": 92.5,
	"TRY": 32.4,
	"GEL": 2.72,
	"AMD": 388,
	"AZN": 1.7,
	"KZT": 475,
	"UZS": 12650,
	"ILS": 3.7,
	"AED": 3.6725,
	"SAR": 3.75,
	"QAR": 3.64,
	"KWD": 0.307,
	"BHD": 0.376,
	"OMR": 0.385,
	"JOD": 0.709,
	"EGP": 48.3,
	"MAD": 9.95,
	"NGN": 1550,
	"GHS": 15.2,
	"KES": 129,
	"TZS": 2650,
	"UGX": 3700,
	"RWF": 1330,
	"ETB": 57.5,
	"ZAR": 18.6,
	"BWP": 13.6,
	"NAD": 18.6,
	"ZMW": 26.5,
	"MUR": 46.1,
	"XOF": 603,
	"XAF": 603,
	"INR": 83.3,
	"PKR": 278,
	"BDT": 117.5,
	"LKR": 298,
	"NPR": 133.2,
	"KRW": 1345,
	"TWD": 32.1,
	"SGD": 1.35,
	"MYR": 4.7,
	"THB": 36.4,
	"IDR": 15900,
	"PHP": 57.1,
	"VND": 25200,
	"KHR": 4080,
	"MNT": 3390,
	"MXN": 17.1,
	"BRL": 5.05,
	"ARS": 890,
	"CLP": 935,
	"COP": 3900,
	"PEN": 3.72,
	"UYU": 38.9,
	"BOB": 6.91,
	"PYG": 7450,
	"CRC": 515,
	"GTQ": 7.78,
	"DOP": 59.2,
	"JMD": 156,
	"TTD": 6.78,
}

// FallbackRates returns the illustrative rates rebased to base. The second
// result is false when base has no fallback quote, in which case the map is
// empty.
func FallbackRates(base string) (map[string]float64, bool) {
	base = Normalize(base)
	if base == fallbackBase {
		return maps.Clone(fallbackRates), true
	}

	baseRate, ok := fallbackRates[base]
	if !ok || baseRate == 0 {
		return map[string]float64{}, false
	}

	rebased := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		rebased[code] = rate / baseRate
	}
	rebased[base] = 1
	return rebased, true
}

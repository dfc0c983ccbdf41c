// Package currency holds the static currency reference table and the
// illustrative fallback rates served when no provider data is available.
package currency

import (
	"strings"

	"github.com/dalfonso89/fx-rates-service/internal/models"
)

// supported is kept in display order; formatted rate listings follow it.
var supported = []models.CurrencyInfo{
	{Code: "USD", Name: "US Dollar", Symbol: "$", Flag: "🇺🇸"},
	{Code: "EUR", Name: "Euro", Symbol: "€", Flag: "🇪🇺"},
	{Code: "GBP", Name: "British Pound", Symbol: "£", Flag: "🇬🇧"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Flag: "🇯🇵"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Flag: "🇦🇺"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Flag: "🇨🇦"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", Flag: "🇨🇭"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Flag: "🇨🇳"},
	{Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$", Flag: "🇭🇰"},
	{Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$", Flag: "🇳🇿"},
	{Code: "SEK", Name: "Swedish Krona", Symbol: "kr", Flag: "🇸🇪"},
	{Code: "NOK", Name: "Norwegian Krone", Symbol: "kr", Flag: "🇳🇴"},
	{Code: "DKK", Name: "Danish Krone", Symbol: "kr", Flag: "🇩🇰"},
	{Code: "ISK", Name: "Icelandic Krona", Symbol: "kr", Flag: "🇮🇸"},
	{Code: "PLN", Name: "Polish Zloty", Symbol: "zł", Flag: "🇵🇱"},
	{Code: "CZK", Name: "Czech Koruna", Symbol: "Kč", Flag: "🇨🇿"},
	{Code: "HUF", Name: "Hungarian Forint", Symbol: "Ft", Flag: "🇭🇺"},
	{Code: "RON", Name: "Romanian Leu", Symbol: "lei", Flag: "🇷🇴"},
	{Code: "BGN", Name: "Bulgarian Lev", Symbol: "лв", Flag: "🇧🇬"},
	{Code: "RSD", Name: "Serbian Dinar", Symbol: "дин", Flag: "🇷🇸"},
	{Code: "UAH", Name: "Ukrainian Hryvnia", Symbol: "₴", Flag: "🇺🇦"},
	{Code: "RUB", Name: "Russian Ruble", Symbol: "₽", Flag: "🇷🇺"},
	{Code: "TRY", Name: "Turkish Lira", Symbol: "₺", Flag: "🇹🇷"},
	{Code: "GEL", Name: "Georgian Lari", Symbol: "₾", Flag: "🇬🇪"},
	{Code: "AMD", Name: "Armenian Dram", Symbol: "֏", Flag: "🇦🇲"},
	{Code: "AZN", Name: "Azerbaijani Manat", Symbol: "₼", Flag: "🇦🇿"},
	{Code: "KZT", Name: "Kazakhstani Tenge", Symbol: "₸", Flag: "🇰🇿"},
	{Code: "UZS", Name: "Uzbekistani Som", Symbol: "soʻm", Flag: "🇺🇿"},
	{Code: "ILS", Name: "Israeli New Shekel", Symbol: "₪", Flag: "🇮🇱"},
	{Code: "AED", Name: "UAE Dirham", Symbol: "د.إ", Flag: "🇦🇪"},
	{Code: "SAR", Name: "Saudi Riyal", Symbol: "﷼", Flag: "🇸🇦"},
	{Code: "QAR", Name: "Qatari Riyal", Symbol: "﷼", Flag: "🇶🇦"},
	{Code: "KWD", Name: "Kuwaiti Dinar", Symbol: "د.ك", Flag: "🇰🇼"},
	{Code: "BHD", Name: "Bahraini Dinar", Symbol: ".د.ب", Flag: "🇧🇭"},
	{Code: "OMR", Name: "Omani Rial", Symbol: "﷼", Flag: "🇴🇲"},
	{Code: "JOD", Name: "Jordanian Dinar", Symbol: "د.ا", Flag: "🇯🇴"},
	{Code: "EGP", Name: "Egyptian Pound", Symbol: "E£", Flag: "🇪🇬"},
	{Code: "MAD", Name: "Moroccan Dirham", Symbol: "د.م.", Flag: "🇲🇦"},
	{Code: "NGN", Name: "Nigerian Naira", Symbol: "₦", Flag: "🇳🇬"},
	{Code: "GHS", Name: "Ghanaian Cedi", Symbol: "₵", Flag: "🇬🇭"},
	{Code: "KES", Name: "Kenyan Shilling", Symbol: "KSh", Flag: "🇰🇪"},
	{Code: "TZS", Name: "Tanzanian Shilling", Symbol: "TSh", Flag: "🇹🇿"},
	{Code: "UGX", Name: "Ugandan Shilling", Symbol: "USh", Flag: "🇺🇬"},
	{Code: "RWF", Name: "Rwandan Franc", Symbol: "FRw", Flag: "🇷🇼"},
	{Code: "ETB", Name: "Ethiopian Birr", Symbol: "Br", Flag: "🇪🇹"},
	{Code: "ZAR", Name: "South African Rand", Symbol: "R", Flag: "🇿🇦"},
	{Code: "BWP", Name: "Botswana Pula", Symbol: "P", Flag: "🇧🇼"},
	{Code: "NAD", Name: "Namibian Dollar", Symbol: "N$", Flag: "🇳🇦"},
	{Code: "ZMW", Name: "Zambian Kwacha", Symbol: "ZK", Flag: "🇿🇲"},
	{Code: "MUR", Name: "Mauritian Rupee", Symbol: "₨", Flag: "🇲🇺"},
	{Code: "XOF", Name: "West African CFA Franc", Symbol: "CFA", Flag: "🌍"},
	{Code: "XAF", Name: "Central African CFA Franc", Symbol: "FCFA", Flag: "🌍"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Flag: "🇮🇳"},
	{Code: "PKR", Name: "Pakistani Rupee", Symbol: "₨", Flag: "🇵🇰"},
	{Code: "BDT", Name: "Bangladeshi Taka", Symbol: "৳", Flag: "🇧🇩"},
	{Code: "LKR", Name: "Sri Lankan Rupee", Symbol: "Rs", Flag: "🇱🇰"},
	{Code: "NPR", Name: "Nepalese Rupee", Symbol: "₨", Flag: "🇳🇵"},
	{Code: "KRW", Name: "South Korean Won", Symbol: "₩", Flag: "🇰🇷"},
	{Code: "TWD", Name: "New Taiwan Dollar", Symbol: "NT$", Flag: "🇹🇼"},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", Flag: "🇸🇬"},
	{Code: "MYR", Name: "Malaysian Ringgit", Symbol: "RM", Flag: "🇲🇾"},
	{Code: "THB", Name: "Thai Baht", Symbol: "฿", Flag: "🇹🇭"},
	{Code: "IDR", Name: "Indonesian Rupiah", Symbol: "Rp", Flag: "🇮🇩"},
	{Code: "PHP", Name: "Philippine Peso", Symbol: "₱", Flag: "🇵🇭"},
	{Code: "VND", Name: "Vietnamese Dong", Symbol: "₫", Flag: "🇻🇳"},
	{Code: "KHR", Name: "Cambodian Riel", Symbol: "៛", Flag: "🇰🇭"},
	{Code: "MNT", Name: "Mongolian Tugrik", Symbol: "₮", Flag: "🇲🇳"},
	{Code: "MXN", Name: "Mexican Peso", Symbol: "MX$", Flag: "🇲🇽"},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$", Flag: "🇧🇷"},
	{Code: "ARS", Name: "Argentine Peso", Symbol: "AR$", Flag: "🇦🇷"},
	{Code: "CLP", Name: "Chilean Peso", Symbol: "CL$", Flag: "🇨🇱"},
	{Code: "COP", Name: "Colombian Peso", Symbol: "CO$", Flag: "🇨🇴"},
	{Code: "PEN", Name: "Peruvian Sol", Symbol: "S/", Flag: "🇵🇪"},
	{Code: "UYU", Name: "Uruguayan Peso", Symbol: "$U", Flag: "🇺🇾"},
	{Code: "BOB", Name: "Bolivian Boliviano", Symbol: "Bs", Flag: "🇧🇴"},
	{Code: "PYG", Name: "Paraguayan Guarani", Symbol: "₲", Flag: "🇵🇾"},
	{Code: "CRC", Name: "Costa Rican Colon", Symbol: "₡", Flag: "🇨🇷"},
	{Code: "GTQ", Name: "Guatemalan Quetzal", Symbol: "Q", Flag: "🇬🇹"},
	{Code: "DOP", Name: "Dominican Peso", Symbol: "RD$", Flag: "🇩🇴"},
	{Code: "JMD", Name: "Jamaican Dollar", Symbol: "J$", Flag: "🇯🇲"},
	{Code: "TTD", Name: "Trinidad and Tobago Dollar", Symbol: "TT$", Flag: "🇹🇹"},
}

var byCode = indexByCode(supported)

func indexByCode(currencies []models.CurrencyInfo) map[string]int {
	index := make(map[string]int, len(currencies))
	for i, info := range currencies {
		index[info.Code] = i
	}
	return index
}

// Supported returns a copy of the reference table in display order.
func Supported() []models.CurrencyInfo {
	out := make([]models.CurrencyInfo, len(supported))
	copy(out, supported)
	return out
}

// Lookup finds a currency by ISO code, case-insensitively.
func Lookup(code string) (models.CurrencyInfo, bool) {
	i, ok := byCode[Normalize(code)]
	if !ok {
		return models.CurrencyInfo{}, false
	}
	return supported[i], true
}

// IsSupported reports whether code is in the reference table.
func IsSupported(code string) bool {
	_, ok := byCode[Normalize(code)]
	return ok
}

// Normalize trims and upper-cases a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

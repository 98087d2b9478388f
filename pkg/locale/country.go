// Package locale holds the per-country settings used when talking to guests:
// the phone region numbers are read in and how amounts are written.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultCountry is the region assumed for numbers without a country code.
const DefaultCountry = "NG"

type Country struct {
	Code           string   // ISO 3166-1 alpha-2
	Name           string
	PhonePrefixes  []string // with and without the leading plus
	Currency       string   // ISO 4217
	CurrencySymbol string
	Language       language.Tag
}

var Countries = map[string]Country{
	"NG": {
		Code:           "NG",
		Name:           "Nigeria",
		PhonePrefixes:  []string{"+234", "234"},
		Currency:       "NGN",
		CurrencySymbol: "₦",
		Language:       language.BritishEnglish,
	},
	"GH": {
		Code:           "GH",
		Name:           "Ghana",
		PhonePrefixes:  []string{"+233", "233"},
		Currency:       "GHS",
		CurrencySymbol: "GH₵",
		Language:       language.BritishEnglish,
	},
	"GB": {
		Code:           "GB",
		Name:           "United Kingdom",
		PhonePrefixes:  []string{"+44", "44"},
		Currency:       "GBP",
		CurrencySymbol: "£",
		Language:       language.BritishEnglish,
	},
	"US": {
		Code:           "US",
		Name:           "United States",
		PhonePrefixes:  []string{"+1", "1"},
		Currency:       "USD",
		CurrencySymbol: "$",
		Language:       language.AmericanEnglish,
	},
	"DE": {
		Code:           "DE",
		Name:           "Germany",
		PhonePrefixes:  []string{"+49", "49"},
		Currency:       "EUR",
		CurrencySymbol: "€",
		Language:       language.English,
	},
}

// ForCurrency returns the country whose currency is code. Currencies shared by
// several countries resolve to the one listed in Countries.
func ForCurrency(code string) (Country, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Countries {
		if c.Currency == code {
			return c, true
		}
	}
	return Country{}, false
}

// InferCountryFromPhone matches the longest known prefix of phone.
func InferCountryFromPhone(phone string) (Country, bool) {
	normalized := strings.TrimSpace(phone)

	var (
		best    Country
		bestLen int
	)
	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) && len(prefix) > bestLen {
				best, bestLen = country, len(prefix)
			}
		}
	}
	return best, bestLen > 0
}

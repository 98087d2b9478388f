package sanitizer

import (
	"strings"
	"unicode"

	"eventstay/pkg/locale"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = locale.DefaultCountry

// NormalizePhone returns phone in E.164. Numbers without a country code are
// read as Nigerian; an international number written without its plus, as
// wa.me links do, keeps its country.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	if digits := digitsOnly(phone); !strings.HasPrefix(phone, "+") && !strings.HasPrefix(digits, "0") && len(digits) > 10 {
		if _, ok := locale.InferCountryFromPhone(digits); ok {
			phone = "+" + digits
		}
	}

	parsedNumber, err := phonenumbers.Parse(phone, DefaultRegion)
	if err != nil {
		return ""
	}
	return phonenumbers.Format(parsedNumber, phonenumbers.E164)
}

// WhatsAppTarget returns the digits wa.me expects in its path.
func WhatsAppTarget(phone string) string {
	return strings.TrimPrefix(NormalizePhone(phone), "+")
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

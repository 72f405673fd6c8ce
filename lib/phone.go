package lib

import (
	"fmt"
	"strings"
)

// DefaultCountryCode is the calling code stripped from inbound numbers.
const DefaultCountryCode = "91"

// NormalizePhone turns a raw sender address such as "whatsapp:+919876543210"
// into the 10 digit key used for sessions and user lookups. Input that is not
// a 10 or 12 digit number degrades to whatever digits remain.
func NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	if len(digits) == 12 && strings.HasPrefix(digits, DefaultCountryCode) {
		return digits[2:]
	}
	return digits
}

// ValidateTenDigit normalizes raw and rejects anything that is not exactly
// 10 digits.
func ValidateTenDigit(raw string) (string, error) {
	phone := NormalizePhone(raw)
	if len(phone) != 10 {
		return "", fmt.Errorf("%w: the 'To' number %s is not a valid 10-digit Indian phone number", ErrInvalidPhone, raw)
	}
	return phone, nil
}

// WhatsAppAddress builds the transport address for a 10 digit phone.
func WhatsAppAddress(countryCode, phone string) string {
	return "whatsapp:+" + countryCode + phone
}

package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone normalizes a phone number to E.164 format, assuming the given
// default region when no country code is present.
func NormalizePhone(phone, region string) (string, error) {
	phone = strings.TrimSpace(phone)

	num, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return "", err
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", phonenumbers.ErrNotANumber
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

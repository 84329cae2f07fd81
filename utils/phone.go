package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// FormatPhoneNumber strips formatting and normalizes a UK number onto the 44
// country code for storage.
func FormatPhoneNumber(phoneNumber string) string {
	digits := nonDigits.ReplaceAllString(phoneNumber, "")
	if digits == "" {
		return digits
	}
	if strings.HasPrefix(digits, "44") {
		return digits
	}
	digits = strings.TrimLeft(digits, "0")
	return "44" + digits
}

// ValidatePhoneNumber accepts UK mobile numbers (07xxxxxxxxx or the 447
// international form).
func ValidatePhoneNumber(phoneNumber string) bool {
	digits := nonDigits.ReplaceAllString(phoneNumber, "")
	if strings.HasPrefix(digits, "447") && len(digits) == 12 {
		return true
	}
	if strings.HasPrefix(digits, "07") && len(digits) == 11 {
		return true
	}
	return false
}

// DisplayPhoneNumber formats a stored number for the dashboard: +44 7xxx xxx xxx.
func DisplayPhoneNumber(phoneNumber string) string {
	formatted := FormatPhoneNumber(phoneNumber)
	if len(formatted) == 12 && strings.HasPrefix(formatted, "44") {
		return "+" + formatted[:2] + " " + formatted[2:6] + " " + formatted[6:9] + " " + formatted[9:]
	}
	return phoneNumber
}

// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var pinRegex = regexp.MustCompile(`^\d{4}$`)

// ValidatePIN checks a 4-digit terminal/supervisor PIN.
func ValidatePIN(pin string) bool {
	return pinRegex.MatchString(pin)
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

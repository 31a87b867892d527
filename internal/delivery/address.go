package delivery

import (
	"regexp"
	"strings"

	"green-kart/internal/model"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// ValidateAddress checks a shipping address and returns every violation
// found, not just the first.
func ValidateAddress(addr model.Address) []string {
	var errs []string

	if strings.TrimSpace(addr.Name) == "" {
		errs = append(errs, "Address name is required")
	}
	if strings.TrimSpace(addr.AddressLine1) == "" {
		errs = append(errs, "Address line 1 is required")
	}
	if strings.TrimSpace(addr.City) == "" {
		errs = append(errs, "City is required")
	}
	if strings.TrimSpace(addr.State) == "" {
		errs = append(errs, "State is required")
	}
	if strings.TrimSpace(addr.Pincode) == "" {
		errs = append(errs, "Pincode is required")
	} else if !sixDigits.MatchString(addr.Pincode) {
		errs = append(errs, "Pincode must be 6 digits")
	}
	if strings.TrimSpace(addr.Country) == "" {
		errs = append(errs, "Country is required")
	}

	return errs
}

// FormatAddress renders an address as a single display line, skipping
// empty parts.
func FormatAddress(addr model.Address) string {
	parts := []string{
		addr.AddressLine1,
		addr.AddressLine2,
		addr.City,
		addr.State,
		addr.Pincode,
		addr.Country,
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return strings.Join(nonEmpty, ", ")
}

// stateByLeadingDigit is a coarse leading-digit mapping for major states.
var stateByLeadingDigit = map[string]string{
	"1": "Delhi",
	"2": "Haryana",
	"3": "Punjab",
	"4": "Rajasthan",
	"5": "Uttar Pradesh",
	"6": "Bihar",
	"7": "West Bengal",
	"8": "Odisha",
	"9": "Tamil Nadu",
}

// StateFromPincode returns the state for a pincode's leading digit, or ""
// when the pincode is invalid or unmapped.
func StateFromPincode(pincode string) string {
	if !IsValidPincode(pincode) {
		return ""
	}
	return stateByLeadingDigit[pincode[:1]]
}

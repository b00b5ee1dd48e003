// Package lookup wraps the external capabilities detectors depend on —
// phone-number plausibility and DNS nameserver queries — behind small
// interfaces so the engine can be tested without network access or parser
// libraries in the loop.
package lookup

import (
	"github.com/nyaruka/phonenumbers"
)

// PhoneChecker decides whether a digit string is a plausible, valid phone
// number. Implementations must treat any internal failure as "not a number".
type PhoneChecker interface {
	IsValidNumber(digits string) bool
}

// phoneRegions are tried in order when parsing a candidate number. The list
// mirrors where call-center spam posts actually originate; the final
// "ZZ" entry covers fully qualified +country numbers.
var phoneRegions = []string{"IN", "US", "NG", "ZZ"}

// LibPhoneChecker validates candidates with the phonenumbers metadata.
type LibPhoneChecker struct{}

// NewLibPhoneChecker returns the production PhoneChecker.
func NewLibPhoneChecker() *LibPhoneChecker {
	return &LibPhoneChecker{}
}

// IsValidNumber reports whether digits parse as a possible AND valid number
// in any of the candidate regions. Parse errors mean no.
func (c *LibPhoneChecker) IsValidNumber(digits string) bool {
	for _, region := range phoneRegions {
		num, err := phonenumbers.Parse(digits, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsPossibleNumber(num) && phonenumbers.IsValidNumber(num) {
			return true
		}
	}
	return false
}

// internal/lead/validate.go
//
// Lead capture: field validator.
//
// Context
// -------
// Validate runs the fixed list of checks below and returns the FIRST failing
// message.  It never aggregates, so tests and users always see the same
// message for the same input.  The enum membership checks come last and use
// go-playground/validator's `oneof` rule.
package lead

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User-facing validation messages.
const (
	MsgNameRequired         = "Name is required"
	MsgEmailRequired        = "Email is required"
	MsgCompanyRequired      = "Company name is required"
	MsgBusinessSizeRequired = "Business size is required"
	MsgServiceRequired      = "Service selection is required"
	MsgProcessesRequired    = "Process description is required"
	MsgEmailInvalid         = "Please enter a valid email address"
	MsgBusinessSizeInvalid  = "Please select a valid business size"
	MsgServiceInvalid       = "Please select a valid service"
)

// emailPattern accepts a simple local@domain.tld shape.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	v = validator.New()

	businessSizeRule = "oneof=" + strings.Join(values(BusinessSizes), " ")
	serviceRule      = "oneof=" + strings.Join(values(Services), " ")
)

type check struct {
	fails func(FormState) bool
	msg   string
}

var checks = []check{
	{func(s FormState) bool { return blank(s.Name) }, MsgNameRequired},
	{func(s FormState) bool { return blank(s.Email) }, MsgEmailRequired},
	{func(s FormState) bool { return blank(s.Company) }, MsgCompanyRequired},
	{func(s FormState) bool { return s.BusinessSize == "" }, MsgBusinessSizeRequired},
	{func(s FormState) bool { return s.Service == "" }, MsgServiceRequired},
	{func(s FormState) bool { return blank(s.Processes) }, MsgProcessesRequired},
	{func(s FormState) bool { return !ValidEmail(s.Email) }, MsgEmailInvalid},
	{func(s FormState) bool { return v.Var(s.BusinessSize, businessSizeRule) != nil }, MsgBusinessSizeInvalid},
	{func(s FormState) bool { return v.Var(s.Service, serviceRule) != nil }, MsgServiceInvalid},
}

// Validate returns ("", true) for a submittable state, otherwise the message
// of the first failing check and false.
func Validate(s FormState) (string, bool) {
	for _, c := range checks {
		if c.fails(s) {
			return c.msg, false
		}
	}
	return "", true
}

// ValidEmail reports whether addr (trimmed) has the local@domain.tld shape.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(strings.TrimSpace(addr))
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

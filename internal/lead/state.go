// internal/lead/state.go
//
// Lead capture: form state and option enums.
//
// Context
// -------
// FormState is the raw, user-entered consultation request.  It is owned by
// exactly one Controller and mutated one field at a time.  Nothing here
// trims or validates; that happens at submit time (validate.go, record.go).
//
// Notes
// -----
//   - Field keys match the HTML input names and the JSON API body, so the
//     transport layers can forward posted values without a mapping table.
//   - Oxford commas, two spaces after periods.
package lead

import "fmt"

// Field keys accepted by FormState.Set.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldCompany      = "company"
	FieldBusinessSize = "businessSize"
	FieldService      = "service"
	FieldProcesses    = "processes"
)

// Fields lists every key in form order.
var Fields = []string{
	FieldName,
	FieldEmail,
	FieldCompany,
	FieldBusinessSize,
	FieldService,
	FieldProcesses,
}

// FormState holds the not-yet-submitted consultation request.  The zero
// value is the empty initial form.
type FormState struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	BusinessSize string `json:"businessSize"`
	Service      string `json:"service"`
	Processes    string `json:"processes"`
}

// Set merges one field into the state.  Unknown keys are rejected so a
// typo in a template cannot silently drop input.
func (s *FormState) Set(field, value string) error {
	switch field {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	case FieldCompany:
		s.Company = value
	case FieldBusinessSize:
		s.BusinessSize = value
	case FieldService:
		s.Service = value
	case FieldProcesses:
		s.Processes = value
	default:
		return fmt.Errorf("lead: unknown form field %q", field)
	}
	return nil
}

// Get returns the current value for field, or "" when unknown.
func (s FormState) Get(field string) string {
	switch field {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldCompany:
		return s.Company
	case FieldBusinessSize:
		return s.BusinessSize
	case FieldService:
		return s.Service
	case FieldProcesses:
		return s.Processes
	}
	return ""
}

// IsEmpty reports whether every field is blank (the initial value).
func (s FormState) IsEmpty() bool { return s == FormState{} }

// -----------------------------------------------------------------------------
// Option enums
// -----------------------------------------------------------------------------

// Option is one selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// BusinessSizes are the accepted businessSize values.
var BusinessSizes = []Option{
	{"startup", "STARTUP (1-10 EMPLOYEES)"},
	{"small", "SMALL BUSINESS (11-50 EMPLOYEES)"},
	{"medium", "MEDIUM BUSINESS (51-200 EMPLOYEES)"},
	{"large", "LARGE ENTERPRISE (200+ EMPLOYEES)"},
}

// Services are the accepted service values.
var Services = []Option{
	{"workflow", "WORKFLOW AUTOMATION"},
	{"ai-assistants", "AI ASSISTANTS"},
	{"integrations", "CUSTOM INTEGRATIONS"},
}

// values flattens opts into the space-separated list validator's oneof wants.
func values(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

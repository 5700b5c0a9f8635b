// internal/lead/record.go
//
// Lead capture: the remote-insert payload.
//
// Context
// -------
// A Record is what the Submitter writes: the FormState trimmed, with the
// email lowercased and businessSize renamed to the business_size column.
// The remote side assigns id, status, and created_at; none are read back.
package lead

import "strings"

// Record is the normalized payload written to the consultations table.
// Build it with NewRecord; treat it as immutable afterwards.
type Record struct {
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Company      string `json:"company" db:"company"`
	BusinessSize string `json:"business_size" db:"business_size"`
	Service      string `json:"service" db:"service"`
	Processes    string `json:"processes" db:"processes"`
}

// NewRecord trims every field, lowercases the email, and maps businessSize
// onto the remote business_size column.
func NewRecord(s FormState) Record {
	return Record{
		Name:         strings.TrimSpace(s.Name),
		Email:        strings.ToLower(strings.TrimSpace(s.Email)),
		Company:      strings.TrimSpace(s.Company),
		BusinessSize: strings.TrimSpace(s.BusinessSize),
		Service:      strings.TrimSpace(s.Service),
		Processes:    strings.TrimSpace(s.Processes),
	}
}

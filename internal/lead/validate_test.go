// internal/lead/validate_test.go
//
// Unit-tests for Validate, ValidEmail, and NewRecord.
//
// Context
// -------
// Validate must report the FIRST failing check in a fixed order.  The table
// below starts from a fully valid state and breaks one or more fields per
// case, asserting the exact message a visitor would see.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validState() FormState {
	return FormState{
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		Company:      "Analytical Engines",
		BusinessSize: "small",
		Service:      "workflow",
		Processes:    "Manual invoice entry every Friday.",
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*FormState)
		want   string
	}{
		{"all empty", func(s *FormState) { *s = FormState{} }, MsgNameRequired},
		{"empty name with bad email", func(s *FormState) {
			s.Name = ""
			s.Email = "not-an-email"
		}, MsgNameRequired},
		{"name whitespace", func(s *FormState) { s.Name = "   " }, MsgNameRequired},
		{"email missing", func(s *FormState) { s.Email = "" }, MsgEmailRequired},
		{"email and company missing", func(s *FormState) {
			s.Email = ""
			s.Company = ""
		}, MsgEmailRequired},
		{"company whitespace", func(s *FormState) { s.Company = "\t" }, MsgCompanyRequired},
		{"size missing", func(s *FormState) { s.BusinessSize = "" }, MsgBusinessSizeRequired},
		{"service missing", func(s *FormState) { s.Service = "" }, MsgServiceRequired},
		{"processes whitespace", func(s *FormState) { s.Processes = " \n " }, MsgProcessesRequired},
		{"required beats email shape", func(s *FormState) {
			s.Email = "not-an-email"
			s.Processes = ""
		}, MsgProcessesRequired},
		{"bad email shape", func(s *FormState) { s.Email = "not-an-email" }, MsgEmailInvalid},
		{"unknown size", func(s *FormState) { s.BusinessSize = "huge" }, MsgBusinessSizeInvalid},
		{"unknown service", func(s *FormState) { s.Service = "consulting" }, MsgServiceInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validState()
			tc.mutate(&s)
			msg, ok := Validate(s)
			assert.False(t, ok)
			assert.Equal(t, tc.want, msg)
		})
	}
}

func TestValidate_OK(t *testing.T) {
	msg, ok := Validate(validState())
	require.True(t, ok)
	assert.Empty(t, msg)

	for _, o := range BusinessSizes {
		s := validState()
		s.BusinessSize = o.Value
		_, ok := Validate(s)
		assert.True(t, ok, "business size %q", o.Value)
	}
	for _, o := range Services {
		s := validState()
		s.Service = o.Value
		_, ok := Validate(s)
		assert.True(t, ok, "service %q", o.Value)
	}
}

func TestValidEmail(t *testing.T) {
	good := []string{"a@b.co", "first.last@sub.example.org", "  padded@example.com  "}
	bad := []string{"", "plain", "a@b", "@b.co", "a@.co.", "a b@c.de", "a@b c.de", "a@@b.co"}

	for _, s := range good {
		assert.True(t, ValidEmail(s), "want valid: %q", s)
	}
	for _, s := range bad {
		assert.False(t, ValidEmail(s), "want invalid: %q", s)
	}
}

func TestNewRecord_Normalizes(t *testing.T) {
	s := FormState{
		Name:         "  Ada  ",
		Email:        " Ada@Example.COM ",
		Company:      " AE ",
		BusinessSize: "medium",
		Service:      "integrations",
		Processes:    "  sync CRM  ",
	}
	got := NewRecord(s)
	assert.Equal(t, Record{
		Name:         "Ada",
		Email:        "ada@example.com",
		Company:      "AE",
		BusinessSize: "medium",
		Service:      "integrations",
		Processes:    "sync CRM",
	}, got)
}

func TestFormState_SetGet(t *testing.T) {
	var s FormState
	require.True(t, s.IsEmpty())

	for _, f := range Fields {
		require.NoError(t, s.Set(f, "x-"+f))
	}
	for _, f := range Fields {
		assert.Equal(t, "x-"+f, s.Get(f))
	}
	assert.False(t, s.IsEmpty())

	assert.Error(t, s.Set("phone", "555"))
	assert.Equal(t, "", s.Get("phone"))
}

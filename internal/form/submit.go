// internal/form/submit.go
//
// Forms: POST body helper.
//
// Context
//   Handlers want one call that parses a urlencoded POST body under a size
//   cap, checks the CSRF token, and hands back only the whitelisted fields.
//   ParseSubmission provides that so component code stays terse.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/http"
)

// MaxBodyBytes caps a form POST.  The largest field is a free-text
// description; 64 KiB is ample.
const MaxBodyBytes = 64 << 10

// ErrBadToken is returned when the CSRF token is missing or invalid.
var ErrBadToken = errors.New("form: invalid or expired csrf token")

// ParseSubmission parses r, verifies the CSRF token for sid, and returns the
// posted value for every key in fields that was present in the body.  Keys
// absent from the body are omitted, so callers can tell "blank" from
// "not sent".
func ParseSubmission(w http.ResponseWriter, r *http.Request, guard *CSRF, sid string, fields []string) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	if !guard.Verify(r.PostForm.Get(TokenField), sid) {
		return nil, ErrBadToken
	}

	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if vals, ok := r.PostForm[f]; ok && len(vals) > 0 {
			out[f] = vals[0]
		}
	}
	return out, nil
}

// VerifyPost is ParseSubmission for forms that carry nothing but the token
// (dismiss, return).
func VerifyPost(w http.ResponseWriter, r *http.Request, guard *CSRF, sid string) error {
	_, err := ParseSubmission(w, r, guard, sid, nil)
	return err
}

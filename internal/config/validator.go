// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any failure
// becomes an *Error listing the offending keys in their dotted koanf form
// (`backend.supabase_url`), so the operator sees exactly which variable to
// set.  `main` treats *Error as fatal: the site never serves a form it
// cannot submit.
//
// Notes
// -----
//   • Field names are reported through the `koanf` tag, not the Go name.
//   • Oxford commas, two spaces after periods.

package config

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = func() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}()

//
// error type
//

// Error reports missing or malformed configuration.  Keys are sorted and
// unique.
type Error struct {
	Keys []string
	Err  error
}

func (e *Error) Error() string {
	if len(e.Keys) == 0 {
		return "config: " + e.Err.Error()
	}
	msg := "config: missing or invalid " + strings.Join(e.Keys, ", ")
	var verrs validator.ValidationErrors
	if e.Err != nil && !errors.As(e.Err, &verrs) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsConfigError reports whether err is (or wraps) an *Error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

//
// public API
//

// validateStruct returns nil or an *Error.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Err: err}
	}

	seen := map[string]bool{}
	var keys []string
	for _, fe := range verrs {
		key := fe.Namespace()
		if i := strings.IndexByte(key, '.'); i >= 0 {
			key = key[i+1:] // drop root "Config."
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return &Error{Keys: keys, Err: err}
}

// Package validate wraps a shared validator instance.
package validate

import "github.com/go-playground/validator/v10"

var v = validator.New()

// Struct validates struct fields by their `validate` tags.
func Struct(s any) error {
	return v.Struct(s)
}

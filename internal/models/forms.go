package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError maps a field name to a human-readable problem with it.
// Field-scoped: each entry renders inline next to the offending input and
// never blocks unrelated fields.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// BookForm holds the editable fields for creating or updating a book.
// UserID comes from the stored session, never from user input.
type BookForm struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	CoverImage string `json:"coverImage,omitempty" validate:"omitempty,url"`
	UserID     int    `json:"userId" validate:"required,gt=0"`
}

// Validate checks the form and returns a [ValidationError] keyed by field, or nil.
func (f BookForm) Validate() ValidationError {
	return collect(validate.Struct(f), map[string]string{
		"Title":      "title",
		"Content":    "content",
		"CoverImage": "coverImage",
		"UserID":     "userId",
	})
}

// LoginForm holds the login credentials prior to submission.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f LoginForm) Validate() ValidationError {
	return collect(validate.Struct(f), map[string]string{
		"Email":    "email",
		"Password": "password",
	})
}

// RegisterForm holds the fields for the two-phase registration flow.
// The minimum password length matches what the identity provider enforces.
type RegisterForm struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=5"`
}

func (f RegisterForm) Validate() ValidationError {
	return collect(validate.Struct(f), map[string]string{
		"Email":    "email",
		"Name":     "name",
		"Password": "password",
	})
}

// collect converts validator errors into a [ValidationError] using the
// struct-field → form-field name mapping. Returns nil when err is nil.
func collect(err error, names map[string]string) ValidationError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationError{"form": err.Error()}
	}

	out := ValidationError{}
	for _, fe := range verrs {
		field, ok := names[fe.Field()]
		if !ok {
			field = strings.ToLower(fe.Field())
		}
		out[field] = message(field, fe)
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "gt":
		return fmt.Sprintf("%s is not set", field)
	default:
		return fmt.Sprintf("invalid %s", field)
	}
}

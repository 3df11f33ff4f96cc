// Package forms validates user input before it is sent to the backend.
//
// Every failure is a *sageapi.ValidationError naming the offending field.
// When several fields fail, the errors are joined in form order.
package forms

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/stocksage/sage/pkg/sageapi"
)

// MinPasswordLength is the shortest password the signup and profile forms accept.
const MinPasswordLength = 6

// Signup is the registration form.
type Signup struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Request converts the form into the wire request.
func (s Signup) Request() sageapi.RegisterRequest {
	return sageapi.RegisterRequest{
		FullName: strings.TrimSpace(s.FullName),
		Email:    strings.TrimSpace(s.Email),
		Phone:    strings.TrimSpace(s.Phone),
		Password: s.Password,
	}
}

// ProfileEdit is the profile form, with an optional password change.
type ProfileEdit struct {
	FullName        string
	Email           string
	Phone           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ChangesPassword reports whether any password field was filled in.
func (p ProfileEdit) ChangesPassword() bool {
	return p.CurrentPassword != "" || p.NewPassword != "" || p.ConfirmPassword != ""
}

// Request converts the form into the wire request.
func (p ProfileEdit) Request() sageapi.ProfileUpdate {
	update := sageapi.ProfileUpdate{
		FullName: strings.TrimSpace(p.FullName),
		Email:    strings.TrimSpace(p.Email),
		Phone:    strings.TrimSpace(p.Phone),
	}
	if p.ChangesPassword() {
		update.CurrentPassword = p.CurrentPassword
		update.NewPassword = p.NewPassword
	}
	return update
}

type checker struct {
	errs []error
}

func (c *checker) fail(field, reason string) {
	c.errs = append(c.errs, &sageapi.ValidationError{Field: field, Reason: reason})
}

func (c *checker) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.fail(field, "is required")
		return false
	}
	return true
}

func (c *checker) email(field, value string) {
	if !c.required(field, value) {
		return
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(value))
	if err != nil || addr.Name != "" {
		c.fail(field, "is not a valid email address")
	}
}

func (c *checker) password(field, value string) {
	if !c.required(field, value) {
		return
	}
	if utf8.RuneCountInString(value) < MinPasswordLength {
		c.fail(field, "must be at least 6 characters")
	}
}

func (c *checker) err() error {
	return errors.Join(c.errs...)
}

// ValidateLogin requires both email and password.
func ValidateLogin(email, password string) error {
	var c checker
	c.required("email", email)
	c.required("password", password)
	return c.err()
}

// ValidateSignup checks every signup field, the password length and that
// the confirmation matches.
func ValidateSignup(s Signup) error {
	var c checker
	c.required("fullName", s.FullName)
	c.email("email", s.Email)
	c.required("phone", s.Phone)
	c.password("password", s.Password)
	if s.Password != s.ConfirmPassword {
		c.fail("confirmPassword", "passwords do not match")
	}
	return c.err()
}

// ValidateProfileUpdate checks the profile fields. Password fields are only
// checked when a change was requested.
func ValidateProfileUpdate(p ProfileEdit) error {
	var c checker
	c.required("fullName", p.FullName)
	c.email("email", p.Email)
	if p.ChangesPassword() {
		c.required("currentPassword", p.CurrentPassword)
		c.password("newPassword", p.NewPassword)
		if p.NewPassword != p.ConfirmPassword {
			c.fail("confirmPassword", "passwords do not match")
		}
	}
	return c.err()
}

// ValidateContact checks the contact form. The subject is optional.
func ValidateContact(m sageapi.ContactMessage) error {
	var c checker
	c.required("name", m.Name)
	c.email("email", m.Email)
	c.required("message", m.Message)
	return c.err()
}

// Fields returns the names of every field that failed in err, in order.
func Fields(err error) []string {
	var fields []string
	collect(err, &fields)
	return fields
}

func collect(err error, fields *[]string) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			collect(e, fields)
		}
		return
	}
	var v *sageapi.ValidationError
	if errors.As(err, &v) {
		*fields = append(*fields, v.Field)
	}
}

package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksage/sage/pkg/sageapi"
)

func validSignup() Signup {
	return Signup{
		FullName:        "Ram Thapa",
		Email:           "ram@example.com",
		Phone:           "9800000000",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		wantFields []string
	}{
		{name: "valid", email: "ram@example.com", password: "x"},
		{name: "missing email", password: "x", wantFields: []string{"email"}},
		{name: "blank password", email: "ram@example.com", password: "  ", wantFields: []string{"password"}},
		{name: "both missing", wantFields: []string{"email", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.email, tt.password)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, sageapi.IsValidation(err))
			assert.Equal(t, tt.wantFields, Fields(err))
		})
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(s *Signup)
		wantFields []string
	}{
		{name: "valid", mutate: func(s *Signup) {}},
		{name: "missing name", mutate: func(s *Signup) { s.FullName = "" }, wantFields: []string{"fullName"}},
		{name: "bad email", mutate: func(s *Signup) { s.Email = "not-an-email" }, wantFields: []string{"email"}},
		{name: "display name email rejected", mutate: func(s *Signup) { s.Email = "Ram <ram@example.com>" }, wantFields: []string{"email"}},
		{name: "missing phone", mutate: func(s *Signup) { s.Phone = "" }, wantFields: []string{"phone"}},
		{
			name: "short password",
			mutate: func(s *Signup) {
				s.Password = "abc"
				s.ConfirmPassword = "abc"
			},
			wantFields: []string{"password"},
		},
		{
			name: "short multibyte password",
			mutate: func(s *Signup) {
				s.Password = "ñññ"
				s.ConfirmPassword = "ñññ"
			},
			wantFields: []string{"password"},
		},
		{
			name: "multibyte password long enough",
			mutate: func(s *Signup) {
				s.Password = "नेपालनेपाल"
				s.ConfirmPassword = "नेपालनेपाल"
			},
		},
		{name: "mismatch", mutate: func(s *Signup) { s.ConfirmPassword = "secret2" }, wantFields: []string{"confirmPassword"}},
		{
			name:       "everything empty",
			mutate:     func(s *Signup) { *s = Signup{} },
			wantFields: []string{"fullName", "email", "phone", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSignup()
			tt.mutate(&s)

			err := ValidateSignup(s)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantFields, Fields(err))
		})
	}
}

func TestValidateSignup_PasswordMessage(t *testing.T) {
	s := validSignup()
	s.Password, s.ConfirmPassword = "12345", "12345"

	err := ValidateSignup(s)

	var v *sageapi.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "password: must be at least 6 characters", v.Error())
}

func TestSignup_Request(t *testing.T) {
	s := validSignup()
	s.Email = "  ram@example.com "

	req := s.Request()

	assert.Equal(t, "ram@example.com", req.Email)
	assert.Equal(t, "secret1", req.Password)
}

func TestValidateProfileUpdate(t *testing.T) {
	base := ProfileEdit{FullName: "Ram", Email: "ram@example.com"}

	assert.NoError(t, ValidateProfileUpdate(base))

	withChange := base
	withChange.CurrentPassword = "old-secret"
	withChange.NewPassword = "new-secret"
	withChange.ConfirmPassword = "new-secret"
	assert.NoError(t, ValidateProfileUpdate(withChange))

	noCurrent := withChange
	noCurrent.CurrentPassword = ""
	assert.Equal(t, []string{"currentPassword"}, Fields(ValidateProfileUpdate(noCurrent)))

	short := withChange
	short.NewPassword, short.ConfirmPassword = "abc", "abc"
	assert.Equal(t, []string{"newPassword"}, Fields(ValidateProfileUpdate(short)))

	shortRunes := withChange
	shortRunes.NewPassword, shortRunes.ConfirmPassword = "ñññ", "ñññ"
	assert.Equal(t, []string{"newPassword"}, Fields(ValidateProfileUpdate(shortRunes)))

	mismatch := withChange
	mismatch.ConfirmPassword = "different"
	assert.Equal(t, []string{"confirmPassword"}, Fields(ValidateProfileUpdate(mismatch)))
}

func TestProfileEdit_Request(t *testing.T) {
	p := ProfileEdit{FullName: "Ram", Email: "ram@example.com", ConfirmPassword: ""}
	assert.Empty(t, p.Request().NewPassword)

	p.CurrentPassword, p.NewPassword = "old", "new-secret"
	req := p.Request()
	assert.Equal(t, "old", req.CurrentPassword)
	assert.Equal(t, "new-secret", req.NewPassword)
}

func TestValidateContact(t *testing.T) {
	msg := sageapi.ContactMessage{Name: "Ram", Email: "ram@example.com", Message: "Hello"}
	assert.NoError(t, ValidateContact(msg))

	msg.Email = "ram@"
	msg.Message = ""
	assert.Equal(t, []string{"email", "message"}, Fields(ValidateContact(msg)))
}

func TestFields_Nil(t *testing.T) {
	assert.Nil(t, Fields(nil))
}

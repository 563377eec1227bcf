package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func fixedValidator() *Validator {
	v := NewValidator()
	v.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return v
}

func TestValidatorCustomerForm(t *testing.T) {
	v := fixedValidator()
	valid := model.Customer{
		FullName:    "Nguyễn Văn A",
		Email:       "a@example.com",
		Phone:       "0912345678",
		DateOfBirth: "1995-03-14",
	}
	require.NoError(t, v.Validate(valid))

	tests := []struct {
		name  string
		edit  func(*model.Customer)
		field string
	}{
		{"phone too short", func(c *model.Customer) { c.Phone = "091234567" }, "phone"},
		{"phone without leading zero", func(c *model.Customer) { c.Phone = "8412345678" }, "phone"},
		{"phone with letters", func(c *model.Customer) { c.Phone = "09123abc78" }, "phone"},
		{"bad email", func(c *model.Customer) { c.Email = "not-an-email" }, "email"},
		{"dob wrong layout", func(c *model.Customer) { c.DateOfBirth = "14/03/1995" }, "dateOfBirth"},
		{"dob today", func(c *model.Customer) { c.DateOfBirth = "2024-06-01" }, "dateOfBirth"},
		{"dob in future", func(c *model.Customer) { c.DateOfBirth = "2030-01-01" }, "dateOfBirth"},
		{"missing name", func(c *model.Customer) { c.FullName = "" }, "fullName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.edit(&c)
			err := v.Validate(c)
			require.Error(t, err)
			msgs := ValidationMessages(err)
			assert.Contains(t, msgs, tt.field)
		})
	}
}

func TestValidatorOptionalDOB(t *testing.T) {
	v := fixedValidator()
	s := model.Staff{TheaterID: 1, FullName: "B", Email: "b@example.com", Phone: "0987654321"}
	assert.NoError(t, v.Validate(s))
}

func TestValidationMessagesIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, ValidationMessages(assert.AnError))
}

func TestValidatePartialChecksOnlyGivenFields(t *testing.T) {
	v := fixedValidator()

	// Only the phone was sent; the missing required name must not fail.
	assert.NoError(t, v.ValidatePartial(model.Customer{Phone: "0912345678"}, []string{"phone"}))

	err := v.ValidatePartial(model.Customer{Phone: "12345"}, []string{"phone"})
	require.Error(t, err)
	assert.Contains(t, ValidationMessages(err), "phone")

	assert.NoError(t, v.ValidatePartial(model.Customer{}, []string{"unknown"}))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email  string `validate:"required,email"`
	Number string `validate:"required,phone10"`
	Status string `validate:"required,report_status"`
}

func TestValidateStruct(t *testing.T) {
	ok := sampleRequest{Email: "a@x.com", Number: "9999999999", Status: "Found"}
	require.NoError(t, ValidateStruct(&ok))

	bad := sampleRequest{Email: "nope", Number: "12345", Status: "Stolen"}
	err := ValidateStruct(&bad)
	require.Error(t, err)

	msg := ValidationMessage(err)
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "number must be exactly 10 digits")
	assert.Contains(t, msg, "status must be one of Lost, Found, Returned")
}

func TestValidationMessage_Required(t *testing.T) {
	err := ValidateStruct(&sampleRequest{})
	require.Error(t, err)
	assert.Contains(t, ValidationMessage(err), "email is required")
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("0123456789"))
	assert.False(t, IsValidPhone("012345678"))
	assert.False(t, IsValidPhone("01234567890"))
	assert.False(t, IsValidPhone("01234-6789"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail(" Alice@Campus.edu "))
	assert.False(t, IsValidEmail("alice@campus"))
	assert.False(t, IsValidEmail(""))
}

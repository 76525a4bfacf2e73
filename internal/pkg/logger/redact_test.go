package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"a@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
		{"", "***@***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.in), "input %q", tt.in)
	}
}

func TestRedactPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+5215512345678", "************78"},
		{"555-0100", "******00"},
		{"12", "**"},
		{"", "**"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactPhone(tt.in), "input %q", tt.in)
	}
}

func TestRedactPIIValue(t *testing.T) {
	assert.Equal(t, "jo***@example.com", redactPIIValue("email", "john@example.com"))
	assert.Equal(t, "jo***@example.com", redactPIIValue("client_email", "john@example.com"))
	assert.Equal(t, "************78", redactPIIValue("phone", "+5215512345678"))
	assert.Equal(t, "************78", redactPIIValue("Phone_Number", "+5215512345678"))

	// Emails embedded in generic fields are still caught.
	assert.Equal(t, "contact jo***@example.com now", redactPIIValue("note", "contact john@example.com now"))
	assert.Equal(t, "plain value", redactPIIValue("note", "plain value"))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"maria@example.com", true},
		{"  maria@example.com ", true},
		{"m.r+hotel@mail.example.org", true},
		{"", false},
		{"maria", false},
		{"@example.com", false},
		{"maria@example", false},
		{"maria@.com", false},
		{"maria@example.", false},
		{"ma ria@example.com", false},
		{"a@b@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestPhoneDigits(t *testing.T) {
	assert.Equal(t, "9545550123", PhoneDigits("(954) 555-0123"))
	assert.Equal(t, "+15550100", PhoneDigits(" +1 555 0100"))
	assert.Equal(t, "", PhoneDigits("   "))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "héll", Clip("héllo", 4))
	assert.Equal(t, "hi", Clip("hi", 4))
	assert.Equal(t, "hi", Clip("hi", 0))
}

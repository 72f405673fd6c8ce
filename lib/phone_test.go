package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "already normalized", raw: "9876543210", want: "9876543210"},
		{name: "transport prefix", raw: "whatsapp:+919876543210", want: "9876543210"},
		{name: "country code", raw: "919876543210", want: "9876543210"},
		{name: "formatted", raw: "+91 98765-43210", want: "9876543210"},
		{name: "foreign 12 digits kept", raw: "+449876543210", want: "449876543210"},
		{name: "short input degrades", raw: "whatsapp:+12345", want: "12345"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw))
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	for _, raw := range []string{"9876543210", "whatsapp:+919876543210", "+91 98765 43210"} {
		once := NormalizePhone(raw)
		assert.Equal(t, once, NormalizePhone(once), raw)
	}
}

func TestValidateTenDigit(t *testing.T) {
	phone, err := ValidateTenDigit("(987) 654-3210")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", phone)

	_, err = ValidateTenDigit("12345")
	require.ErrorIs(t, err, ErrInvalidPhone)
	assert.Contains(t, err.Error(), "not a valid 10-digit Indian phone number")
}

func TestWhatsAppAddress(t *testing.T) {
	assert.Equal(t, "whatsapp:+919876543210", WhatsAppAddress("91", "9876543210"))
}

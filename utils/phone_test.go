package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name   string
		phone  string
		region string
		want   string
	}{
		{"us national format", "(212) 555-0123", "US", "+12125550123"},
		{"already e164", "+442071838750", "US", "+442071838750"},
		{"with whitespace", "  212 555 0123  ", "US", "+12125550123"},
		{"indonesian national", "0812-3456-7890", "ID", "+6281234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.phone, tt.region)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizePhone_Invalid(t *testing.T) {
	for _, phone := range []string{"", "not a number", "123"} {
		if _, err := NormalizePhone(phone, "US"); err == nil {
			t.Errorf("expected error for %q", phone)
		}
	}
}

package lookup

import "testing"

func TestLibPhoneChecker(t *testing.T) {
	checker := NewLibPhoneChecker()

	tests := []struct {
		digits string
		want   bool
	}{
		{"+919876543210", true}, // fully qualified IN mobile
		{"9876543210", true},    // bare IN mobile, first candidate region
		{"12", false},
		{"123456", false},
		{"0000000000", false},
		{"not a number", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := checker.IsValidNumber(tt.digits); got != tt.want {
			t.Errorf("IsValidNumber(%q) = %v, want %v", tt.digits, got, tt.want)
		}
	}
}

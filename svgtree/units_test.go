package svgtree

import (
	"math"
	"testing"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{"2.5", 2.5},
		{".5", 0.5},
		{"-4", -4},
		{"10px", 10},
		{"4pt", 5},
		{"1pc", 15},
		{"10mm", 35.43307},
		{"1cm", 35.43307},
		{"1in", 90},
		{" 2 in ", 180},
		{"1IN", 90},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.in)
		if err != nil {
			t.Errorf("ParseLength(%q) error = %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseLength(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLength_Errors(t *testing.T) {
	for _, in := range []string{"", "abc", "10furlongs", "1.2.3mm", "mm"} {
		if _, err := ParseLength(in); err == nil {
			t.Errorf("ParseLength(%q) expected error", in)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(12); got != "12" {
		t.Errorf("FormatNumber(12) = %q", got)
	}
	if got := FormatNumber(0.25); got != "0.25" {
		t.Errorf("FormatNumber(0.25) = %q", got)
	}
	if got := Translate(1.5, -2); got != "translate(1.5,-2)" {
		t.Errorf("Translate() = %q", got)
	}
}

package astro

import (
	"math"
	"testing"
)

func TestSignificantDigits(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1234.5, 1235},
		{98765.4, 98765},
		{123.456, 123.5},
		{12.3456, 12.35},
		{1.23456, 1.235},
		{0.123456, 0.1235},
		{0.0123456, 0.01235},
		{0.012345, 0.01235}, // five decimals below 0.1, not an identity
		{0.00123456, 0.001235},
		{-12.3456, -12.35},
	}

	for _, tt := range tests {
		got := SignificantDigits(tt.in)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("SignificantDigits(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSignificantDigits_NonFinite(t *testing.T) {
	if got := SignificantDigits(math.NaN()); !math.IsNaN(got) {
		t.Errorf("NaN -> %v", got)
	}
	if got := SignificantDigits(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("+Inf -> %v", got)
	}
}

func TestFormatMagnitude(t *testing.T) {
	tests := []struct {
		v    float64
		unit string
		want string
	}{
		{1.52366, "AU", "1.524 AU"},
		{365.256, "d", "365.3 d"},
		{0, "", "0"},
		{4321.9, "", "4322"},
	}

	for _, tt := range tests {
		if got := FormatMagnitude(tt.v, tt.unit); got != tt.want {
			t.Errorf("FormatMagnitude(%v, %q) = %q, want %q", tt.v, tt.unit, got, tt.want)
		}
	}
}

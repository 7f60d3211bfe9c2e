package units

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestFeetToMeters(t *testing.T) {
	tests := []struct {
		name string
		feet float64
		want float64
	}{
		{"zero", 0, 0},
		{"one foot", 1, 0.3048},
		{"thousand feet", 1000, 304.8},
		{"flight level step", 100, 30.48},
		{"negative", -500, -152.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeetToMeters(tt.feet)
			if !almostEqual(got, tt.want) {
				t.Errorf("FeetToMeters(%v) = %v, want %v", tt.feet, got, tt.want)
			}
		})
	}
}

func TestMetersToFeet(t *testing.T) {
	tests := []struct {
		name   string
		meters float64
		want   float64
	}{
		{"zero", 0, 0},
		{"one meter", 0.3048, 1},
		{"thousand feet worth", 304.8, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MetersToFeet(tt.meters)
			if !almostEqual(got, tt.want) {
				t.Errorf("MetersToFeet(%v) = %v, want %v", tt.meters, got, tt.want)
			}
		})
	}
}

func TestNMToMeters(t *testing.T) {
	tests := []struct {
		name string
		nm   float64
		want float64
	}{
		{"zero", 0, 0},
		{"one nautical mile", 1, 1852},
		{"typical CTR radius", 5, 9260},
		{"fractional", 2.5, 4630},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NMToMeters(tt.nm)
			if !almostEqual(got, tt.want) {
				t.Errorf("NMToMeters(%v) = %v, want %v", tt.nm, got, tt.want)
			}
		})
	}
}

func TestMetersToNM(t *testing.T) {
	if got := MetersToNM(1852); !almostEqual(got, 1) {
		t.Errorf("MetersToNM(1852) = %v, want 1", got)
	}
}

func TestStatuteMiles(t *testing.T) {
	if got := StatuteMilesToMeters(1); !almostEqual(got, 1609.344) {
		t.Errorf("StatuteMilesToMeters(1) = %v, want 1609.344", got)
	}
	if got := MetersToStatuteMiles(1609.344); !almostEqual(got, 1) {
		t.Errorf("MetersToStatuteMiles(1609.344) = %v, want 1", got)
	}
}

func TestKilometers(t *testing.T) {
	if got := KilometersToMeters(2.5); !almostEqual(got, 2500) {
		t.Errorf("KilometersToMeters(2.5) = %v, want 2500", got)
	}
	if got := MetersToKilometers(2500); !almostEqual(got, 2.5) {
		t.Errorf("MetersToKilometers(2500) = %v, want 2.5", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 12.34, 1000, 98765.4321} {
		if got := MetersToFeet(FeetToMeters(v)); !almostEqual(got, v) {
			t.Errorf("feet round trip of %v = %v", v, got)
		}
		if got := MetersToNM(NMToMeters(v)); !almostEqual(got, v) {
			t.Errorf("nm round trip of %v = %v", v, got)
		}
	}
}
